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

package presto_test

import (
	"testing"

	"github.com/harmandeeps/presto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionCommit(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	txn := reg.Open()
	assert.Equal(t, presto.TxnOpen, txn.State())

	id, err := txn.AllocateWriteID("default", "nation")
	require.NoError(t, err)
	assert.Equal(t, presto.WriteID(1), id)

	require.NoError(t, txn.Commit())
	assert.Equal(t, presto.TxnCommitted, txn.State())
}

func TestTransactionCommitThenCommit(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	txn := reg.Open()
	require.NoError(t, txn.Commit())
	assert.ErrorIs(t, txn.Commit(), presto.ErrInvalidState)
}

func TestTransactionCommitThenAbort(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	txn := reg.Open()
	require.NoError(t, txn.Commit())
	assert.ErrorIs(t, txn.Abort(), presto.ErrInvalidState)
}

func TestTransactionAbortThenCommit(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	txn := reg.Open()
	require.NoError(t, txn.Abort())
	assert.ErrorIs(t, txn.Commit(), presto.ErrInvalidState)
	assert.ErrorIs(t, txn.Abort(), presto.ErrInvalidState)
}

func TestAllocateWriteIDOnTerminalTransaction(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	txn := reg.Open()
	require.NoError(t, txn.Abort())

	_, err := txn.AllocateWriteID("default", "nation")
	assert.ErrorIs(t, err, presto.ErrInvalidState)
}

func TestWriteIDsMonotonicAcrossTransactions(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	for want := presto.WriteID(1); want <= 5; want++ {
		txn := reg.Open()
		id, err := txn.AllocateWriteID("default", "nation")
		require.NoError(t, err)
		assert.Equal(t, want, id)
		require.NoError(t, txn.Commit())
	}
}

func TestAbortedWriteIDNotReused(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	aborted := reg.Open()
	id, err := aborted.AllocateWriteID("default", "nation")
	require.NoError(t, err)
	require.NoError(t, aborted.Abort())

	next := reg.Open()
	nextID, err := next.AllocateWriteID("default", "nation")
	require.NoError(t, err)
	assert.Equal(t, id+1, nextID)
}

func TestAllocateWriteIDIdempotentPerTable(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	txn := reg.Open()
	first, err := txn.AllocateWriteID("default", "nation")
	require.NoError(t, err)
	again, err := txn.AllocateWriteID("default", "nation")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other, err := txn.AllocateWriteID("default", "region")
	require.NoError(t, err)
	assert.Equal(t, presto.WriteID(1), other)
}

func TestWriteIDCountersScopedPerTable(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	a := reg.Open()
	idNation, err := a.AllocateWriteID("default", "nation")
	require.NoError(t, err)

	b := reg.Open()
	idRegion, err := b.AllocateWriteID("default", "region")
	require.NoError(t, err)

	assert.Equal(t, presto.WriteID(1), idNation)
	assert.Equal(t, presto.WriteID(1), idRegion)
}

func TestRegistryStates(t *testing.T) {
	reg := presto.NewWriteIDRegistry()

	committed := reg.Open()
	_, err := committed.AllocateWriteID("default", "nation")
	require.NoError(t, err)
	require.NoError(t, committed.Commit())

	aborted := reg.Open()
	_, err = aborted.AllocateWriteID("default", "nation")
	require.NoError(t, err)
	require.NoError(t, aborted.Abort())

	open := reg.Open()
	_, err = open.AllocateWriteID("default", "nation")
	require.NoError(t, err)

	states := reg.States("default", "nation")
	assert.Equal(t, map[presto.WriteID]presto.TxnState{
		1: presto.TxnCommitted,
		2: presto.TxnAborted,
		3: presto.TxnOpen,
	}, states)
}
