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

package metastore_test

import (
	"context"
	"sync"
	"testing"

	"github.com/harmandeeps/presto"
	"github.com/harmandeeps/presto/metastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemClientTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	client := metastore.NewMemClient()
	defer client.Close()

	txn, err := client.OpenTransaction(ctx, "test")
	require.NoError(t, err)

	ids, err := client.AllocateTableWriteIDs(ctx, "default", "nation", []int64{txn})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, presto.WriteID(1), ids[0])

	require.NoError(t, client.CommitTransaction(ctx, txn))
	assert.ErrorIs(t, client.CommitTransaction(ctx, txn), presto.ErrInvalidState)
	assert.ErrorIs(t, client.AbortTransaction(ctx, txn), presto.ErrInvalidState)
}

func TestMemClientAbortKeepsWriteIDConsumed(t *testing.T) {
	ctx := context.Background()
	client := metastore.NewMemClient()

	txn, err := client.OpenTransaction(ctx, "test")
	require.NoError(t, err)
	ids, err := client.AllocateTableWriteIDs(ctx, "default", "nation", []int64{txn})
	require.NoError(t, err)
	require.NoError(t, client.AbortTransaction(ctx, txn))

	next, err := client.OpenTransaction(ctx, "test")
	require.NoError(t, err)
	nextIDs, err := client.AllocateTableWriteIDs(ctx, "default", "nation", []int64{next})
	require.NoError(t, err)
	assert.Equal(t, ids[0]+1, nextIDs[0])

	states := client.States("default", "nation")
	assert.Equal(t, presto.TxnAborted, states[ids[0]])
}

func TestMemClientUnknownTransaction(t *testing.T) {
	ctx := context.Background()
	client := metastore.NewMemClient()

	assert.Error(t, client.CommitTransaction(ctx, 42))
	assert.Error(t, client.AbortTransaction(ctx, 42))
	_, err := client.AllocateTableWriteIDs(ctx, "default", "nation", []int64{42})
	assert.Error(t, err)
}

func TestMemClientConcurrentAllocationMonotonic(t *testing.T) {
	ctx := context.Background()
	client := metastore.NewMemClient()

	const workers = 16
	ids := make([]presto.WriteID, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			txn, err := client.OpenTransaction(ctx, "test")
			if !assert.NoError(t, err) {
				return
			}
			out, err := client.AllocateTableWriteIDs(ctx, "default", "nation", []int64{txn})
			if !assert.NoError(t, err) {
				return
			}
			ids[slot] = out[0]
			assert.NoError(t, client.CommitTransaction(ctx, txn))
		}(i)
	}
	wg.Wait()

	seen := make(map[presto.WriteID]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "write id %d allocated twice", id)
		assert.GreaterOrEqual(t, id, presto.WriteID(1))
		assert.LessOrEqual(t, id, presto.WriteID(workers))
		seen[id] = true
	}
}
