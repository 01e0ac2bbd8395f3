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

// Package presto models the on-disk layout and transaction semantics of
// Hive ACID tables: delta directory naming by write id range, transaction
// life cycle, and the visibility rule readers must apply.
package presto

import (
	"fmt"
	"regexp"
	"strconv"
)

// WriteID is a per-table monotonically increasing identifier scoping one
// transaction's writes. It is allocated exactly once per (transaction, table)
// pair and never reused, even when the owning transaction aborts.
type WriteID int64

// DeltaKind distinguishes insert deltas, which add rows, from delete
// deltas, which mark previously written rows as removed.
type DeltaKind int

const (
	DeltaKindInsert DeltaKind = iota
	DeltaKindDelete
)

func (k DeltaKind) String() string {
	switch k {
	case DeltaKindInsert:
		return "insert"
	case DeltaKindDelete:
		return "delete"
	}

	return fmt.Sprintf("DeltaKind(%d)", int(k))
}

const (
	deltaPrefix       = "delta"
	deleteDeltaPrefix = "delete_delta"
)

// DeltaLocation identifies one delta directory by its inclusive write id
// range, the statement id disambiguating multiple directories written within
// one transaction, and whether it inserts or deletes rows. The tuple
// uniquely determines the directory's canonical name.
type DeltaLocation struct {
	MinWriteID  WriteID
	MaxWriteID  WriteID
	StatementID int
	Kind        DeltaKind
}

// NewDeltaLocation validates the write id range at construction time.
// A range with MinWriteID > MaxWriteID is rejected, never normalized.
func NewDeltaLocation(minWriteID, maxWriteID WriteID, statementID int, kind DeltaKind) (DeltaLocation, error) {
	if minWriteID > maxWriteID {
		return DeltaLocation{}, fmt.Errorf("%w: min %d > max %d",
			ErrInvalidRange, minWriteID, maxWriteID)
	}

	return DeltaLocation{
		MinWriteID:  minWriteID,
		MaxWriteID:  maxWriteID,
		StatementID: statementID,
		Kind:        kind,
	}, nil
}

// Subdir returns the canonical directory name for this location, e.g.
// "delta_0000001_0000001_0000" or "delete_delta_0000003_0000003_0000".
func (d DeltaLocation) Subdir() string {
	prefix := deltaPrefix
	if d.Kind == DeltaKindDelete {
		prefix = deleteDeltaPrefix
	}

	return fmt.Sprintf("%s_%07d_%07d_%04d", prefix, d.MinWriteID, d.MaxWriteID, d.StatementID)
}

func (d DeltaLocation) String() string { return d.Subdir() }

// WriteIDs returns every write id in the location's inclusive range.
func (d DeltaLocation) WriteIDs() []WriteID {
	out := make([]WriteID, 0, d.MaxWriteID-d.MinWriteID+1)
	for id := d.MinWriteID; id <= d.MaxWriteID; id++ {
		out = append(out, id)
	}

	return out
}

// DeltaSubdir formats an insert-delta directory name without going through
// a DeltaLocation. The range must already be valid.
func DeltaSubdir(minWriteID, maxWriteID WriteID, statementID int) string {
	return DeltaLocation{MinWriteID: minWriteID, MaxWriteID: maxWriteID, StatementID: statementID}.Subdir()
}

// DeleteDeltaSubdir is the delete-delta counterpart of DeltaSubdir.
func DeleteDeltaSubdir(minWriteID, maxWriteID WriteID, statementID int) string {
	return DeltaLocation{
		MinWriteID:  minWriteID,
		MaxWriteID:  maxWriteID,
		StatementID: statementID,
		Kind:        DeltaKindDelete,
	}.Subdir()
}

var deltaSubdirRe = regexp.MustCompile(`^(delete_delta|delta)_(\d{7})_(\d{7})_(\d{4})$`)

// ParseSubdir is the inverse of Subdir. Names that do not match the fixed
// layout, including ones with valid fields in the wrong width, fail with
// ErrMalformedName; a parsed range with min > max fails with ErrInvalidRange.
func ParseSubdir(name string) (DeltaLocation, error) {
	m := deltaSubdirRe.FindStringSubmatch(name)
	if m == nil {
		return DeltaLocation{}, fmt.Errorf("%w: %q", ErrMalformedName, name)
	}

	kind := DeltaKindInsert
	if m[1] == deleteDeltaPrefix {
		kind = DeltaKindDelete
	}

	// The pattern guarantees fixed-width base-10 digits.
	minID, _ := strconv.ParseInt(m[2], 10, 64)
	maxID, _ := strconv.ParseInt(m[3], 10, 64)
	stmtID, _ := strconv.Atoi(m[4])

	return NewDeltaLocation(WriteID(minID), WriteID(maxID), stmtID, kind)
}
