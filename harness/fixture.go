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

package harness

import (
	"context"
	"strings"

	"github.com/harmandeeps/presto"
	"github.com/harmandeeps/presto/oracle"
	"github.com/harmandeeps/presto/orc"
)

// Capacity hint for draining a fully replicated table.
const collectCapacity = 25000

// SeedNationTable writes the same rows through two committed transactions,
// producing deltas at write ids 1 and 2. That is the precondition
// SimulateAbortedTransaction expects.
func (s *Simulator) SeedNationTable(ctx context.Context, db, table string, rows []presto.NationRow) error {
	for i := 0; i < 2; i++ {
		if _, err := s.WriteCommittedDelta(ctx, db, table, rows); err != nil {
			return err
		}
	}

	return nil
}

// BuildDeleteDeltaFixture materializes the nation_delete_deltas resource
// under resourceRoot: one delete delta per entry, each carrying the nation
// keys it logically removes.
func (s *Simulator) BuildDeleteDeltaFixture(ctx context.Context, resourceRoot string, keysByWriteID map[presto.WriteID][]int) (oracle.DeleteDeltaLocations, error) {
	builder := oracle.NewDeleteDeltaBuilder(resourceRoot + "/nation_delete_deltas")
	for writeID := range keysByWriteID {
		builder.AddDeleteDelta(writeID, writeID, 0)
	}
	locs, err := builder.Build()
	if err != nil {
		return oracle.DeleteDeltaLocations{}, err
	}

	for i, delta := range locs.Deltas() {
		keys := keysByWriteID[delta.MinWriteID]
		if err := oracle.WriteDeletedKeys(ctx, s.FS, locs.Paths()[i], delta.MinWriteID, keys...); err != nil {
			return oracle.DeleteDeltaLocations{}, err
		}
	}

	return locs, nil
}

// ReadTable models a correct reader: list the table's delta directories,
// keep the insert deltas the snapshot makes visible, and drain their
// bucket files. Listing entries that are not delta directories are
// ignored, the way a reader skips base files and stray names.
func (s *Simulator) ReadTable(ctx context.Context, table string, states map[presto.WriteID]presto.TxnState) ([]presto.NationRow, error) {
	keys, err := s.FS.List(ctx, s.Warehouse+"/"+table+"/")
	if err != nil {
		return nil, err
	}

	tablePrefix := strings.TrimPrefix(trimSchemePrefix(s.Warehouse), "/") + "/" + table + "/"
	seen := make(map[presto.DeltaLocation]bool)
	var deltas []presto.DeltaLocation
	for _, key := range keys {
		rel := strings.TrimPrefix(strings.TrimPrefix(key, "/"), tablePrefix)
		subdir, _, found := strings.Cut(rel, "/")
		if !found {
			continue
		}
		loc, err := presto.ParseSubdir(subdir)
		if err != nil || loc.Kind != presto.DeltaKindInsert || seen[loc] {
			continue
		}
		seen[loc] = true
		deltas = append(deltas, loc)
	}

	rows := make([]presto.NationRow, 0, collectCapacity)
	for _, loc := range presto.VisibleDeltas(deltas, states) {
		recs, err := orc.ReadRecords(ctx, s.FS, s.bucketPath(table, loc))
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			batch, err := orc.RowsFromRecord(rec)
			rec.Release()
			if err != nil {
				return nil, err
			}
			rows = append(rows, batch...)
		}
	}

	return rows, nil
}

func trimSchemePrefix(name string) string {
	if i := strings.Index(name, "://"); i >= 0 {
		return name[i+len("://"):]
	}

	return name
}
