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

// Package orc moves row batches between delta directory bucket files. The
// on-disk encoding is Arrow IPC; the harness only cares that a reader
// exposes a schema plus "next batch or end of stream" and that a writer
// accepts batches under the same schema.
package orc

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/harmandeeps/presto"
)

// NationSchema is the row-batch schema of the nation fixture table.
var NationSchema = arrow.NewSchema([]arrow.Field{
	{Name: "n_nationkey", Type: arrow.PrimitiveTypes.Int32},
	{Name: "n_name", Type: arrow.BinaryTypes.String},
	{Name: "n_regionkey", Type: arrow.PrimitiveTypes.Int32},
	{Name: "n_comment", Type: arrow.BinaryTypes.String},
}, nil)

// NewNationRecord builds one record batch from nation rows. The caller owns
// the returned record and must Release it.
func NewNationRecord(rows []presto.NationRow) arrow.Record {
	bldr := array.NewRecordBuilder(memory.DefaultAllocator, NationSchema)
	defer bldr.Release()

	for _, r := range rows {
		bldr.Field(0).(*array.Int32Builder).Append(int32(r.NationKey))
		bldr.Field(1).(*array.StringBuilder).Append(r.Name)
		bldr.Field(2).(*array.Int32Builder).Append(int32(r.RegionKey))
		bldr.Field(3).(*array.StringBuilder).Append(r.Comment)
	}

	return bldr.NewRecord()
}

// RowsFromRecord converts one record batch back into nation rows, checking
// that the batch carries the full column set.
func RowsFromRecord(rec arrow.Record) ([]presto.NationRow, error) {
	if rec.NumCols() != int64(NationSchema.NumFields()) {
		return nil, fmt.Errorf("did not read required number of columns: %d", rec.NumCols())
	}

	nationKeys, ok := rec.Column(0).(*array.Int32)
	if !ok {
		return nil, fmt.Errorf("column n_nationkey has type %s", rec.Column(0).DataType())
	}
	names, ok := rec.Column(1).(*array.String)
	if !ok {
		return nil, fmt.Errorf("column n_name has type %s", rec.Column(1).DataType())
	}
	regionKeys, ok := rec.Column(2).(*array.Int32)
	if !ok {
		return nil, fmt.Errorf("column n_regionkey has type %s", rec.Column(2).DataType())
	}
	comments, ok := rec.Column(3).(*array.String)
	if !ok {
		return nil, fmt.Errorf("column n_comment has type %s", rec.Column(3).DataType())
	}

	rows := make([]presto.NationRow, rec.NumRows())
	for i := range rows {
		rows[i] = presto.NationRow{
			NationKey: int(nationKeys.Value(i)),
			Name:      names.Value(i),
			RegionKey: int(regionKeys.Value(i)),
			Comment:   comments.Value(i),
		}
	}

	return rows, nil
}
