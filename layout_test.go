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

func TestDeltaSubdir(t *testing.T) {
	assert.Equal(t, "delta_0000001_0000001_0000", presto.DeltaSubdir(1, 1, 0))
	assert.Equal(t, "delta_0000002_0000002_0000", presto.DeltaSubdir(2, 2, 0))
	assert.Equal(t, "delta_0000003_0000003_0000", presto.DeltaSubdir(3, 3, 0))
	assert.Equal(t, "delta_0000005_0000017_0003", presto.DeltaSubdir(5, 17, 3))
}

func TestDeleteDeltaSubdir(t *testing.T) {
	assert.Equal(t, "delete_delta_0000003_0000003_0000", presto.DeleteDeltaSubdir(3, 3, 0))
	assert.Equal(t, "delete_delta_0000004_0000004_0000", presto.DeleteDeltaSubdir(4, 4, 0))
}

func TestParseSubdirRoundTrip(t *testing.T) {
	tests := []struct {
		min, max presto.WriteID
		stmt     int
		kind     presto.DeltaKind
	}{
		{1, 1, 0, presto.DeltaKindInsert},
		{2, 2, 0, presto.DeltaKindInsert},
		{3, 3, 0, presto.DeltaKindDelete},
		{10, 25, 7, presto.DeltaKindInsert},
		{0, 9999999, 9999, presto.DeltaKindDelete},
	}

	for _, tt := range tests {
		loc, err := presto.NewDeltaLocation(tt.min, tt.max, tt.stmt, tt.kind)
		require.NoError(t, err)

		parsed, err := presto.ParseSubdir(loc.Subdir())
		require.NoError(t, err, "parsing %s", loc.Subdir())
		assert.Equal(t, loc, parsed)
	}
}

func TestParseSubdirMalformed(t *testing.T) {
	malformed := []string{
		"",
		"delta",
		"delta_1_1_0",
		"delta_0000001_0000001",
		"delta_0000001_0000001_00000",
		"delta_000001_0000001_0000",
		"Delta_0000001_0000001_0000",
		"base_0000001",
		"delta_0000001_0000001_0000/bucket_00000",
		"delta_0x00001_0000001_0000",
	}

	for _, name := range malformed {
		_, err := presto.ParseSubdir(name)
		assert.ErrorIs(t, err, presto.ErrMalformedName, "name %q", name)
	}
}

func TestNewDeltaLocationRejectsInvertedRange(t *testing.T) {
	_, err := presto.NewDeltaLocation(5, 3, 0, presto.DeltaKindInsert)
	assert.ErrorIs(t, err, presto.ErrInvalidRange)
}

func TestParseSubdirRejectsInvertedRange(t *testing.T) {
	_, err := presto.ParseSubdir("delta_0000005_0000003_0000")
	assert.ErrorIs(t, err, presto.ErrInvalidRange)
}

func TestDeltaLocationWriteIDs(t *testing.T) {
	loc, err := presto.NewDeltaLocation(3, 5, 0, presto.DeltaKindInsert)
	require.NoError(t, err)
	assert.Equal(t, []presto.WriteID{3, 4, 5}, loc.WriteIDs())
}
