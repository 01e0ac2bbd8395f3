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

package presto

import "fmt"

// TxnState is the life-cycle state of one write transaction.
// Committed and Aborted are terminal.
type TxnState int

const (
	TxnOpen TxnState = iota
	TxnCommitted
	TxnAborted
)

func (s TxnState) String() string {
	switch s {
	case TxnOpen:
		return "open"
	case TxnCommitted:
		return "committed"
	case TxnAborted:
		return "aborted"
	}

	return fmt.Sprintf("TxnState(%d)", int(s))
}

// Transaction models one write transaction and the write ids allocated
// under it. Write id allocation is only legal while the transaction is
// open; commit and abort are one-shot and mutually exclusive. An aborted
// transaction keeps its write ids: they are permanently consumed, and any
// delta directory written under them stays permanently invisible. That is
// how an orphaned delta is produced for fault-injection runs.
type Transaction struct {
	id       int64
	state    TxnState
	writeIDs map[string]WriteID

	registry *WriteIDRegistry
}

// ID returns the opaque transaction id assigned at open time.
func (t *Transaction) ID() int64 { return t.id }

// State returns the transaction's current life-cycle state.
func (t *Transaction) State() TxnState { return t.state }

// WriteID reports the write id allocated for the given table, if any.
func (t *Transaction) WriteID(db, table string) (WriteID, bool) {
	id, ok := t.writeIDs[db+"."+table]

	return id, ok
}

// AllocateWriteID hands out the next write id for the table. A table gets
// at most one write id per transaction; asking again returns the same id.
func (t *Transaction) AllocateWriteID(db, table string) (WriteID, error) {
	if t.state != TxnOpen {
		return 0, fmt.Errorf("%w: allocate write id on %s transaction %d",
			ErrInvalidState, t.state, t.id)
	}

	key := db + "." + table
	if id, ok := t.writeIDs[key]; ok {
		return id, nil
	}

	id := t.registry.nextWriteID(db, table)
	t.writeIDs[key] = id
	t.registry.record(db, table, id, t)

	return id, nil
}

// Commit moves the transaction to its terminal committed state.
func (t *Transaction) Commit() error {
	if t.state != TxnOpen {
		return fmt.Errorf("%w: commit %s transaction %d", ErrInvalidState, t.state, t.id)
	}
	t.state = TxnCommitted

	return nil
}

// Abort moves the transaction to its terminal aborted state. The write ids
// it holds are not retracted or reallocated.
func (t *Transaction) Abort() error {
	if t.state != TxnOpen {
		return fmt.Errorf("%w: abort %s transaction %d", ErrInvalidState, t.state, t.id)
	}
	t.state = TxnAborted

	return nil
}

// WriteIDRegistry is the serialization point for write id allocation on a
// set of tables, standing in for the metastore's table write id counters.
// It also remembers which transaction owns each allocated id, which is the
// input the visibility rule needs.
type WriteIDRegistry struct {
	nextTxnID int64
	counters  map[string]WriteID
	owners    map[string]map[WriteID]*Transaction
}

func NewWriteIDRegistry() *WriteIDRegistry {
	return &WriteIDRegistry{
		nextTxnID: 1,
		counters:  make(map[string]WriteID),
		owners:    make(map[string]map[WriteID]*Transaction),
	}
}

// Open creates a new transaction in the open state.
func (r *WriteIDRegistry) Open() *Transaction {
	t := &Transaction{
		id:       r.nextTxnID,
		state:    TxnOpen,
		writeIDs: make(map[string]WriteID),
		registry: r,
	}
	r.nextTxnID++

	return t
}

func (r *WriteIDRegistry) nextWriteID(db, table string) WriteID {
	key := db + "." + table
	r.counters[key]++

	return r.counters[key]
}

func (r *WriteIDRegistry) record(db, table string, id WriteID, t *Transaction) {
	key := db + "." + table
	if r.owners[key] == nil {
		r.owners[key] = make(map[WriteID]*Transaction)
	}
	r.owners[key][id] = t
}

// States returns the write id to transaction state mapping for one table,
// the form VisibleDeltas consumes. Ids never allocated are absent.
func (r *WriteIDRegistry) States(db, table string) map[WriteID]TxnState {
	out := make(map[WriteID]TxnState)
	for id, txn := range r.owners[db+"."+table] {
		out[id] = txn.state
	}

	return out
}
