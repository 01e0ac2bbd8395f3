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

// Package oracle computes the exact row multiset a correct reader should
// return for the nation fixture table: base rows exploded by a replication
// factor, minus rows excluded by delete deltas, with unvalidated columns
// replaced by sentinels so a test can check one column without false
// positives on the others.
package oracle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harmandeeps/presto"
)

// DefaultReplicationFactor is how many logical output rows each base row
// expands into. The fixture table is intentionally over-populated to
// exercise scale and skew.
const DefaultReplicationFactor = 1000

type config struct {
	replicationFactor int
	onlyForRow        int
	onlyForColumn     int
	invalidRows       map[int]bool
	excludedKeys      map[int]bool
}

type Option func(*config)

// WithReplicationFactor overrides the default replication factor. Values
// at or below zero are rejected by ExpectedRows.
func WithReplicationFactor(n int) Option {
	return func(c *config) { c.replicationFactor = n }
}

// OnlyForRow restricts the oracle to the base row at the given zero-based
// line number. Rows excluded by WithInvalidRows stay excluded even when
// they match.
func OnlyForRow(lineNum int) Option {
	return func(c *config) { c.onlyForRow = lineNum }
}

// OnlyForColumn validates a single column by zero-based index. Every other
// column is emitted as its sentinel: -1 for numeric columns, "INVALID"
// for text columns.
func OnlyForColumn(colIdx int) Option {
	return func(c *config) { c.onlyForColumn = colIdx }
}

// WithInvalidRows excludes base rows by zero-based line number, modeling
// rows logically deleted from the table.
func WithInvalidRows(lineNums ...int) Option {
	return func(c *config) {
		if c.invalidRows == nil {
			c.invalidRows = make(map[int]bool)
		}
		for _, n := range lineNums {
			c.invalidRows[n] = true
		}
	}
}

// WithExcludedKeys supplies the precomputed delete-delta exclusion
// predicate: nation keys covered by a visible delete delta contribute no
// output rows. Computing the key set from delete-delta directories is a
// separate step, see ExcludedKeys.
func WithExcludedKeys(keys map[int]bool) Option {
	return func(c *config) { c.excludedKeys = keys }
}

// ExpectedRows reads the pipe-delimited base dataset and returns the
// expected row multiset in emission order: base-row order, then replica
// order. Comparison downstream is multiset based, the order carries no
// meaning.
func ExpectedRows(r io.Reader, opts ...Option) ([]presto.NationRow, error) {
	cfg := config{
		replicationFactor: DefaultReplicationFactor,
		onlyForRow:        -1,
		onlyForColumn:     -1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.replicationFactor <= 0 {
		return nil, fmt.Errorf("%w: replication factor %d must be positive",
			presto.ErrInvalidArgument, cfg.replicationFactor)
	}

	result := make([]presto.NationRow, 0)
	scanner := bufio.NewScanner(r)
	lineNum := -1
	for scanner.Scan() {
		lineNum++
		// Invalid rows are excluded first; a row excluded here is never
		// reconsidered even when it matches OnlyForRow.
		if cfg.invalidRows[lineNum] {
			continue
		}
		if cfg.onlyForRow >= 0 && cfg.onlyForRow != lineNum {
			continue
		}

		row, key, err := parseLine(scanner.Text(), cfg.onlyForColumn)
		if err != nil {
			return nil, err
		}
		if cfg.excludedKeys[key] {
			continue
		}

		for i := 0; i < cfg.replicationFactor; i++ {
			result = append(result, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ExpectedRowsFromFile is ExpectedRows over a test-resource file.
func ExpectedRowsFromFile(path string, opts ...Option) ([]presto.NationRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ExpectedRows(f, opts...)
}

// parseLine builds the emitted row, substituting sentinels for columns the
// caller chose not to validate. Suppressed numeric columns are not parsed,
// so validating one column never trips over corruption in another. The
// nation key is always parsed: it is the row identity delete deltas
// exclude by.
func parseLine(line string, onlyForColumn int) (presto.NationRow, int, error) {
	cols := strings.Split(line, "|")
	if len(cols) < 4 {
		return presto.NationRow{}, 0, fmt.Errorf("%w: %d columns in %q",
			presto.ErrMalformedRow, len(cols), line)
	}

	key, err := strconv.Atoi(cols[0])
	if err != nil {
		return presto.NationRow{}, 0, fmt.Errorf("%w: nationkey %q", presto.ErrParse, cols[0])
	}

	row := presto.NationRow{
		NationKey: presto.InvalidInt,
		Name:      presto.InvalidText,
		RegionKey: presto.InvalidInt,
		Comment:   presto.InvalidText,
	}
	if onlyForColumn < 0 || onlyForColumn == 0 {
		row.NationKey = key
	}
	if onlyForColumn < 0 || onlyForColumn == 1 {
		row.Name = cols[1]
	}
	if onlyForColumn < 0 || onlyForColumn == 2 {
		row.RegionKey, err = strconv.Atoi(cols[2])
		if err != nil {
			return presto.NationRow{}, 0, fmt.Errorf("%w: regionkey %q", presto.ErrParse, cols[2])
		}
	}
	if onlyForColumn < 0 || onlyForColumn == 3 {
		row.Comment = cols[3]
	}

	return row, key, nil
}
