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

package metastore

import (
	"context"
	"fmt"
	"sync"

	"github.com/harmandeeps/presto"
)

// MemClient implements Client against an in-process write id registry, so
// scenarios run without a live metastore. Allocation is serialized: write
// ids appear atomic and monotonically increasing across concurrent
// transactions on the same table, matching the guarantee the remote
// service provides.
type MemClient struct {
	mu       sync.Mutex
	registry *presto.WriteIDRegistry
	txns     map[int64]*presto.Transaction
}

func NewMemClient() *MemClient {
	return &MemClient{
		registry: presto.NewWriteIDRegistry(),
		txns:     make(map[int64]*presto.Transaction),
	}
}

func (m *MemClient) Close() error { return nil }

func (m *MemClient) OpenTransaction(_ context.Context, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn := m.registry.Open()
	m.txns[txn.ID()] = txn

	return txn.ID(), nil
}

func (m *MemClient) AllocateTableWriteIDs(_ context.Context, db, table string, txnIDs []int64) ([]presto.WriteID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]presto.WriteID, 0, len(txnIDs))
	for _, id := range txnIDs {
		txn, ok := m.txns[id]
		if !ok {
			return nil, fmt.Errorf("no such transaction: %d", id)
		}
		writeID, err := txn.AllocateWriteID(db, table)
		if err != nil {
			return nil, err
		}
		out = append(out, writeID)
	}

	return out, nil
}

func (m *MemClient) CommitTransaction(_ context.Context, txnID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.txns[txnID]
	if !ok {
		return fmt.Errorf("no such transaction: %d", txnID)
	}

	return txn.Commit()
}

func (m *MemClient) AbortTransaction(_ context.Context, txnID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.txns[txnID]
	if !ok {
		return fmt.Errorf("no such transaction: %d", txnID)
	}

	return txn.Abort()
}

// States exposes the write id to transaction state snapshot for one table,
// the input the visibility rule consumes.
func (m *MemClient) States(db, table string) map[presto.WriteID]presto.TxnState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.registry.States(db, table)
}
