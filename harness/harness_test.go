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

package harness_test

import (
	"context"
	"testing"

	"github.com/harmandeeps/presto"
	"github.com/harmandeeps/presto/harness"
	icio "github.com/harmandeeps/presto/io"
	"github.com/harmandeeps/presto/metastore"
	"github.com/harmandeeps/presto/oracle"
	"github.com/harmandeeps/presto/orc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedRows = []presto.NationRow{
	{NationKey: 0, Name: "ALGERIA", RegionKey: 0, Comment: "haggle. carefully final deposits"},
	{NationKey: 1, Name: "ARGENTINA", RegionKey: 1, Comment: "al foxes promise slyly"},
}

func newSimulator(t *testing.T) (*harness.Simulator, *metastore.MemClient) {
	t.Helper()

	client := metastore.NewMemClient()
	fio, err := icio.LoadFS(context.Background(), "mem://")
	require.NoError(t, err)

	return &harness.Simulator{
		Client:    client,
		FS:        fio,
		Warehouse: "mem://warehouse",
	}, client
}

func TestWriteCommittedDelta(t *testing.T) {
	ctx := context.Background()
	sim, client := newSimulator(t)

	writeID, err := sim.WriteCommittedDelta(ctx, "default", "nation", seedRows)
	require.NoError(t, err)
	assert.Equal(t, presto.WriteID(1), writeID)

	rows, err := sim.ReadTable(ctx, "nation", client.States("default", "nation"))
	require.NoError(t, err)
	assert.Equal(t, seedRows, rows)
}

func TestSimulateAbortedTransaction(t *testing.T) {
	ctx := context.Background()
	sim, client := newSimulator(t)

	require.NoError(t, sim.SeedNationTable(ctx, "default", "nation", seedRows))

	abortedID, err := sim.SimulateAbortedTransaction(ctx, "default", "nation")
	require.NoError(t, err)
	assert.Equal(t, presto.WriteID(3), abortedID)

	// The orphan delta physically holds rows cloned from delta 1.
	orphan := "mem://warehouse/nation/" + presto.DeltaSubdir(3, 3, 0) + "/" + harness.BucketFile
	recs, err := orc.ReadRecords(ctx, sim.FS, orphan)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	cloned, err := orc.RowsFromRecord(recs[0])
	recs[0].Release()
	require.NoError(t, err)
	assert.Equal(t, seedRows, cloned)

	// A correct reader still returns only the two committed deltas.
	rows, err := sim.ReadTable(ctx, "nation", client.States("default", "nation"))
	require.NoError(t, err)
	assert.Len(t, rows, 2*len(seedRows))
	for i, row := range rows {
		assert.Equal(t, seedRows[i%len(seedRows)], row)
	}
}

func TestSimulateAbortedTransactionNeedsSeededTable(t *testing.T) {
	ctx := context.Background()
	sim, _ := newSimulator(t)

	_, err := sim.SimulateAbortedTransaction(ctx, "default", "nation")
	assert.ErrorIs(t, err, presto.ErrInvalidArgument)
}

func TestSimulateAbortedTransactionMissingDeltaFatal(t *testing.T) {
	ctx := context.Background()
	sim, _ := newSimulator(t)

	// Burn two write ids without writing any files: the simulation must
	// fail on the missing delta instead of papering over it.
	for i := 0; i < 2; i++ {
		txn, err := sim.Client.OpenTransaction(ctx, "test")
		require.NoError(t, err)
		_, err = sim.Client.AllocateTableWriteIDs(ctx, "default", "nation", []int64{txn})
		require.NoError(t, err)
		require.NoError(t, sim.Client.CommitTransaction(ctx, txn))
	}

	_, err := sim.SimulateAbortedTransaction(ctx, "default", "nation")
	assert.Error(t, err)
}

func TestBuildDeleteDeltaFixture(t *testing.T) {
	ctx := context.Background()
	sim, _ := newSimulator(t)

	locs, err := sim.BuildDeleteDeltaFixture(ctx, "mem://resources", map[presto.WriteID][]int{
		3: {3},
		4: {4},
	})
	require.NoError(t, err)

	keys, err := oracle.ExcludedKeys(ctx, sim.FS, locs)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{3: true, 4: true}, keys)
}

func TestReadTableIgnoresStrayDirectories(t *testing.T) {
	ctx := context.Background()
	sim, client := newSimulator(t)

	_, err := sim.WriteCommittedDelta(ctx, "default", "nation", seedRows)
	require.NoError(t, err)

	w, err := sim.FS.Create(ctx, "mem://warehouse/nation/base_0000001/bucket_00000")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows, err := sim.ReadTable(ctx, "nation", client.States("default", "nation"))
	require.NoError(t, err)
	assert.Equal(t, seedRows, rows)
}

func TestNewScenarioTable(t *testing.T) {
	a := harness.NewScenarioTable("nation")
	b := harness.NewScenarioTable("nation")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "nation_")
}
