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

package oracle

import (
	"context"
	"fmt"

	"github.com/hamba/avro/v2/ocf"

	"github.com/harmandeeps/presto"
	icio "github.com/harmandeeps/presto/io"
)

// DeleteDeltaLocations names the delete-delta directories under one
// partition root that a reader must honor. Ordering among the deltas is
// irrelevant: deletion is idempotent and commutative, a row covered by any
// of them is removed exactly once.
type DeleteDeltaLocations struct {
	partitionRoot string
	deltas        []presto.DeltaLocation
}

func (d DeleteDeltaLocations) PartitionRoot() string { return d.partitionRoot }

func (d DeleteDeltaLocations) Deltas() []presto.DeltaLocation { return d.deltas }

// Paths returns the directory path of every delete delta.
func (d DeleteDeltaLocations) Paths() []string {
	out := make([]string, len(d.deltas))
	for i, delta := range d.deltas {
		out[i] = d.partitionRoot + "/" + delta.Subdir()
	}

	return out
}

// DeleteDeltaBuilder accumulates delete deltas for one partition.
type DeleteDeltaBuilder struct {
	partitionRoot string
	deltas        []presto.DeltaLocation
	err           error
}

func NewDeleteDeltaBuilder(partitionRoot string) *DeleteDeltaBuilder {
	return &DeleteDeltaBuilder{partitionRoot: partitionRoot}
}

// AddDeleteDelta registers the delete delta for the given write id range
// and statement id. Range violations surface from Build.
func (b *DeleteDeltaBuilder) AddDeleteDelta(minWriteID, maxWriteID presto.WriteID, statementID int) *DeleteDeltaBuilder {
	loc, err := presto.NewDeltaLocation(minWriteID, maxWriteID, statementID, presto.DeltaKindDelete)
	if err != nil {
		if b.err == nil {
			b.err = err
		}

		return b
	}
	b.deltas = append(b.deltas, loc)

	return b
}

func (b *DeleteDeltaBuilder) Build() (DeleteDeltaLocations, error) {
	if b.err != nil {
		return DeleteDeltaLocations{}, b.err
	}

	return DeleteDeltaLocations{partitionRoot: b.partitionRoot, deltas: b.deltas}, nil
}

// NationDeleteDeltas is the canonical fixture: delete deltas at write ids
// 3 and 4, statement 0, under resourceRoot/nation_delete_deltas.
func NationDeleteDeltas(resourceRoot string) (DeleteDeltaLocations, error) {
	return NewDeleteDeltaBuilder(resourceRoot + "/nation_delete_deltas").
		AddDeleteDelta(3, 3, 0).
		AddDeleteDelta(4, 4, 0).
		Build()
}

// Deleted row keys are stored per delete-delta directory as an Avro object
// container file.
const keyFileName = "keys.avro"

const deletedKeySchema = `{
	"type": "record",
	"name": "DeletedKey",
	"namespace": "presto.acid",
	"fields": [
		{"name": "nationkey", "type": "int"},
		{"name": "write_id", "type": "long"}
	]
}`

type deletedKey struct {
	NationKey int32 `avro:"nationkey"`
	WriteID   int64 `avro:"write_id"`
}

// WriteDeletedKeys populates one delete-delta directory's key file. The
// harness uses it to build fixtures.
func WriteDeletedKeys(ctx context.Context, fio icio.FileIO, deltaPath string, writeID presto.WriteID, nationKeys ...int) (err error) {
	out, err := fio.Create(ctx, deltaPath+"/"+keyFileName)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := ocf.NewEncoder(deletedKeySchema, out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}()

	for _, key := range nationKeys {
		if err := enc.Encode(deletedKey{NationKey: int32(key), WriteID: int64(writeID)}); err != nil {
			return err
		}
	}

	return nil
}

// ExcludedKeys maps delete-delta directories to the row identities they
// cover. This is the separate step that feeds WithExcludedKeys: directory
// membership is decided structurally by write id range, never by row
// content, so the visibility rule and the row-filtering rule stay
// independently testable.
func ExcludedKeys(ctx context.Context, fio icio.FileIO, locs DeleteDeltaLocations) (map[int]bool, error) {
	keys := make(map[int]bool)
	for _, path := range locs.Paths() {
		if err := readDeletedKeys(ctx, fio, path, keys); err != nil {
			return nil, fmt.Errorf("delete delta %s: %w", path, err)
		}
	}

	return keys, nil
}

func readDeletedKeys(ctx context.Context, fio icio.FileIO, deltaPath string, keys map[int]bool) (err error) {
	in, err := fio.Open(ctx, deltaPath+"/"+keyFileName)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); err == nil {
			err = cerr
		}
	}()

	dec, err := ocf.NewDecoder(in)
	if err != nil {
		return err
	}

	for dec.HasNext() {
		var dk deletedKey
		if err := dec.Decode(&dk); err != nil {
			return err
		}
		keys[int(dk.NationKey)] = true
	}

	return dec.Error()
}
