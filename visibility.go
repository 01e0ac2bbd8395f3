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

// VisibleDeltas returns the delta locations a reader must honor under the
// given snapshot of transaction states: exactly those whose every write id
// maps to a committed transaction. A write id owned by an aborted
// transaction excludes its directory, and so does a write id the snapshot
// has never seen: a reader may race with an allocation, so unknown ids
// are conservatively not visible rather than an error.
//
// The function is pure and order independent; one directory's visibility
// never depends on another directory's presence.
func VisibleDeltas(deltas []DeltaLocation, states map[WriteID]TxnState) []DeltaLocation {
	out := make([]DeltaLocation, 0, len(deltas))
	for _, d := range deltas {
		if deltaVisible(d, states) {
			out = append(out, d)
		}
	}

	return out
}

func deltaVisible(d DeltaLocation, states map[WriteID]TxnState) bool {
	for id := d.MinWriteID; id <= d.MaxWriteID; id++ {
		if states[id] != TxnCommitted {
			return false
		}
	}

	return true
}
