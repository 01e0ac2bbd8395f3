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

package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/harmandeeps/presto"
)

type textOutput struct{}

func (textOutput) Text(s string) {
	fmt.Println(s)
}

func (textOutput) Error(err error) {
	pterm.Error.Println(err.Error())
}

func (textOutput) Location(loc presto.DeltaLocation) {
	pterm.DefaultTable.
		WithBoxed(true).
		WithHasHeader(true).
		WithHeaderRowSeparator("-").
		WithData(pterm.TableData{
			{"field", "value"},
			{"kind", loc.Kind.String()},
			{"min write id", strconv.FormatInt(int64(loc.MinWriteID), 10)},
			{"max write id", strconv.FormatInt(int64(loc.MaxWriteID), 10)},
			{"statement id", strconv.Itoa(loc.StatementID)},
		}).Render()
}

const sampleRows = 10

func (textOutput) ExpectedRows(rows []presto.NationRow) {
	data := pterm.TableData{{"nationkey", "name", "regionkey", "comment"}}
	for i, row := range rows {
		if i == sampleRows {
			break
		}
		data = append(data, []string{
			strconv.Itoa(row.NationKey), row.Name,
			strconv.Itoa(row.RegionKey), row.Comment,
		})
	}

	pterm.DefaultTable.
		WithHasHeader(true).
		WithHeaderRowSeparator("-").
		WithData(data).Render()

	if len(rows) > sampleRows {
		pterm.Info.Printfln("... and %d more rows", len(rows)-sampleRows)
	}
	pterm.Info.Printfln("%d expected rows", len(rows))
}

func (textOutput) Simulated(table string, writeID presto.WriteID) {
	pterm.Success.Printfln("aborted transaction left orphan %s under table %s",
		presto.DeltaSubdir(writeID, writeID, 0), table)
}
