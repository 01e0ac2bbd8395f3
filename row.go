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

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/twmb/murmur3"
)

// Sentinels substituted for columns a test chose not to validate. Downstream
// comparisons hard-code these, so they must not change.
const (
	InvalidInt  = -1
	InvalidText = "INVALID"
)

// NationRow is one logical row of the nation fixture table
// (nationkey|name|regionkey|comment). Rows are immutable value types:
// equality is structural over all four columns and Hash is consistent
// with it, so rows can be counted in a multiset for comparison.
type NationRow struct {
	NationKey int
	Name      string
	RegionKey int
	Comment   string
}

// NationRowFromMap builds a row from a loosely typed column mapping, the
// shape a page source hands back. Missing keys default to the same
// sentinels the oracle substitutes for suppressed columns, so a partially
// populated input is a legitimate row rather than an error.
func NationRowFromMap(cols map[string]any) NationRow {
	return NationRow{
		NationKey: intOrDefault(cols, "n_nationkey", InvalidInt),
		Name:      textOrDefault(cols, "n_name", InvalidText),
		RegionKey: intOrDefault(cols, "n_regionkey", InvalidInt),
		Comment:   textOrDefault(cols, "n_comment", InvalidText),
	}
}

func intOrDefault(cols map[string]any, key string, def int) int {
	v, ok := cols[key]
	if !ok {
		return def
	}
	switch v := v.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}

	return def
}

func textOrDefault(cols map[string]any, key, def string) string {
	if v, ok := cols[key].(string); ok {
		return v
	}

	return def
}

const nationColumns = 4

// ParseNationLine parses one pipe-delimited base dataset line. Lines with
// fewer than four columns fail with ErrMalformedRow; numeric columns use
// strict base-10 parsing and fail with ErrParse on non-numeric content.
func ParseNationLine(line string) (NationRow, error) {
	cols := strings.Split(line, "|")
	if len(cols) < nationColumns {
		return NationRow{}, fmt.Errorf("%w: %d columns in %q", ErrMalformedRow, len(cols), line)
	}

	nationKey, err := strconv.Atoi(cols[0])
	if err != nil {
		return NationRow{}, fmt.Errorf("%w: nationkey %q", ErrParse, cols[0])
	}
	regionKey, err := strconv.Atoi(cols[2])
	if err != nil {
		return NationRow{}, fmt.Errorf("%w: regionkey %q", ErrParse, cols[2])
	}

	return NationRow{
		NationKey: nationKey,
		Name:      cols[1],
		RegionKey: regionKey,
		Comment:   cols[3],
	}, nil
}

// Hash returns a 32-bit hash consistent with structural equality.
func (r NationRow) Hash() uint32 {
	var buf []byte
	buf = binary.AppendVarint(buf, int64(r.NationKey))
	buf = append(buf, r.Name...)
	buf = append(buf, 0)
	buf = binary.AppendVarint(buf, int64(r.RegionKey))
	buf = append(buf, r.Comment...)

	return murmur3.Sum32(buf)
}

func (r NationRow) String() string {
	return fmt.Sprintf("%d|%s|%d|%s", r.NationKey, r.Name, r.RegionKey, r.Comment)
}
