// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package harness drives ACID table states for reader verification:
// committed deltas, aborted-transaction orphan deltas, and delete-delta
// fixtures.
package harness

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harmandeeps/presto"
	icio "github.com/harmandeeps/presto/io"
	"github.com/harmandeeps/presto/metastore"
	"github.com/harmandeeps/presto/orc"
)

// BucketFile is the single bucket file each fixture delta carries.
const BucketFile = "bucket_00000"

// Simulator wires the metastore and file-system collaborators against one
// warehouse root. All collaborator failures are fatal to the scenario; the
// simulator never retries.
type Simulator struct {
	Client    metastore.Client
	FS        icio.FileIO
	Warehouse string
}

// NewScenarioTable returns a unique table name for one scenario run, so
// parallel runs against a shared warehouse never collide.
func NewScenarioTable(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString()[:8])
}

func (s *Simulator) bucketPath(table string, loc presto.DeltaLocation) string {
	return s.Warehouse + "/" + table + "/" + loc.Subdir() + "/" + BucketFile
}

// WriteCommittedDelta runs one full committed write: open a transaction,
// allocate the table write id, populate the delta's bucket file with the
// given rows, and commit. It returns the allocated write id.
func (s *Simulator) WriteCommittedDelta(ctx context.Context, db, table string, rows []presto.NationRow) (presto.WriteID, error) {
	txn, err := s.Client.OpenTransaction(ctx, "test")
	if err != nil {
		return 0, err
	}

	ids, err := s.Client.AllocateTableWriteIDs(ctx, db, table, []int64{txn})
	if err != nil {
		return 0, err
	}
	writeID := ids[0]

	loc, err := presto.NewDeltaLocation(writeID, writeID, 0, presto.DeltaKindInsert)
	if err != nil {
		return 0, err
	}

	rec := orc.NewNationRecord(rows)
	defer rec.Release()
	if err := orc.WriteRecords(ctx, s.FS, s.bucketPath(table, loc), rec); err != nil {
		return 0, err
	}

	return writeID, s.Client.CommitTransaction(ctx, txn)
}

// SimulateAbortedTransaction produces an orphaned delta holding real data.
// It opens a transaction, allocates a write id, and rolls the transaction
// back, leaving the write id permanently consumed. It then deletes the
// bucket files of the previous delta and of the aborted delta, and clones
// the first delta's content into both. The aborted delta now physically
// contains valid rows; a correct reader must still skip it on transaction
// state alone.
//
// The table needs at least two committed deltas first, the state
// WriteCommittedDelta builds.
func (s *Simulator) SimulateAbortedTransaction(ctx context.Context, db, table string) (presto.WriteID, error) {
	txn, err := s.Client.OpenTransaction(ctx, "test")
	if err != nil {
		return 0, err
	}

	ids, err := s.Client.AllocateTableWriteIDs(ctx, db, table, []int64{txn})
	if err != nil {
		return 0, err
	}
	writeID := ids[0]
	if writeID < 3 {
		return 0, fmt.Errorf("%w: allocated write id %d, need two committed deltas first",
			presto.ErrInvalidArgument, writeID)
	}

	deltaA := s.bucketPath(table, presto.DeltaLocation{MinWriteID: writeID - 2, MaxWriteID: writeID - 2})
	deltaB := s.bucketPath(table, presto.DeltaLocation{MinWriteID: writeID - 1, MaxWriteID: writeID - 1})
	deltaC := s.bucketPath(table, presto.DeltaLocation{MinWriteID: writeID, MaxWriteID: writeID})

	// The in-flight write creates the delta directory before the rollback,
	// which is what leaves the orphan behind.
	if err := orc.WriteRecords(ctx, s.FS, deltaC); err != nil {
		return 0, err
	}
	if err := s.Client.AbortTransaction(ctx, txn); err != nil {
		return 0, err
	}

	if err := s.FS.Remove(ctx, deltaB); err != nil {
		return 0, err
	}
	if err := s.FS.Remove(ctx, deltaC); err != nil {
		return 0, err
	}

	if err := orc.CloneBatches(ctx, s.FS, deltaA, deltaB, deltaC); err != nil {
		return 0, err
	}

	return writeID, nil
}
