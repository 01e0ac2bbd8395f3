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
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/harmandeeps/presto"
	"github.com/harmandeeps/presto/config"
	"github.com/harmandeeps/presto/harness"
	icio "github.com/harmandeeps/presto/io"
	"github.com/harmandeeps/presto/metastore"
	"github.com/harmandeeps/presto/oracle"
)

const usage = `acid.

Usage:
  acid name [options] (delta | delete-delta) MIN MAX [STMT]
  acid parse [options] NAME
  acid expected [options] FILE
  acid simulate [options] TABLE [FILE]
  acid -h | --help | --version

Commands:
  name        Print the canonical delta directory name for a write id range.
  parse       Decompose a delta directory name into its fields.
  expected    Compute the expected row multiset for a base dataset file.
  simulate    Run the aborted-transaction scenario against a table.

Arguments:
  MIN         minimum write id (inclusive)
  MAX         maximum write id (inclusive)
  STMT        statement id [default: 0]
  NAME        a delta directory name
  FILE        pipe-delimited base dataset file
  TABLE       table name under the warehouse root

Options:
  -h --help            show this help message and exit
  --replication N      rows each base row explodes into
  --row N              validate only the base row at this line number
  --column N           validate only this column, suppress the others
  --invalid-rows LIST  comma-separated line numbers to exclude
  --warehouse URI      warehouse root [default from config]
  --metastore URI      metastore thrift URI [default from config]
  --database NAME      database name [default from config]
  --offline            simulate against an in-process metastore
  --config TEXT        path to the configuration file`

type cliConfig struct {
	Name     bool `docopt:"name"`
	Parse    bool `docopt:"parse"`
	Expected bool `docopt:"expected"`
	Simulate bool `docopt:"simulate"`

	Delta       bool `docopt:"delta"`
	DeleteDelta bool `docopt:"delete-delta"`

	Min      string `docopt:"MIN"`
	Max      string `docopt:"MAX"`
	Stmt     string `docopt:"STMT"`
	DirName  string `docopt:"NAME"`
	FilePath string `docopt:"FILE"`
	Table    string `docopt:"TABLE"`

	Replication string `docopt:"--replication"`
	Row         string `docopt:"--row"`
	Column      string `docopt:"--column"`
	InvalidRows string `docopt:"--invalid-rows"`
	Warehouse   string `docopt:"--warehouse"`
	Metastore   string `docopt:"--metastore"`
	Database    string `docopt:"--database"`
	Offline     bool   `docopt:"--offline"`
	Config      string `docopt:"--config"`
}

func main() {
	ctx := context.Background()
	args, err := docopt.ParseArgs(usage, os.Args[1:], "acid 0.1.0")
	if err != nil {
		log.Fatal(err)
	}

	cfg := cliConfig{}
	if err := args.Bind(&cfg); err != nil {
		log.Fatal(err)
	}

	fileCfg := config.ParseConfig(config.LoadConfig(cfg.Config))
	if cfg.Warehouse == "" {
		cfg.Warehouse = fileCfg.Warehouse
	}
	if cfg.Metastore == "" {
		cfg.Metastore = fileCfg.MetastoreURI
	}
	if cfg.Database == "" {
		cfg.Database = fileCfg.Database
	}

	out := textOutput{}

	switch {
	case cfg.Name:
		runName(cfg, out)
	case cfg.Parse:
		runParse(cfg, out)
	case cfg.Expected:
		runExpected(cfg, out)
	case cfg.Simulate:
		runSimulate(ctx, cfg, out)
	}
}

func mustInt(s, what string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid %s: %q", what, s)
	}

	return n
}

func runName(cfg cliConfig, out textOutput) {
	stmt := 0
	if cfg.Stmt != "" {
		stmt = mustInt(cfg.Stmt, "statement id")
	}
	kind := presto.DeltaKindInsert
	if cfg.DeleteDelta {
		kind = presto.DeltaKindDelete
	}

	loc, err := presto.NewDeltaLocation(
		presto.WriteID(mustInt(cfg.Min, "min write id")),
		presto.WriteID(mustInt(cfg.Max, "max write id")),
		stmt, kind)
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}

	out.Text(loc.Subdir())
}

func runParse(cfg cliConfig, out textOutput) {
	loc, err := presto.ParseSubdir(cfg.DirName)
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}

	out.Location(loc)
}

func runExpected(cfg cliConfig, out textOutput) {
	var opts []oracle.Option
	if cfg.Replication != "" {
		opts = append(opts, oracle.WithReplicationFactor(mustInt(cfg.Replication, "replication factor")))
	}
	if cfg.Row != "" {
		opts = append(opts, oracle.OnlyForRow(mustInt(cfg.Row, "row id")))
	}
	if cfg.Column != "" {
		opts = append(opts, oracle.OnlyForColumn(mustInt(cfg.Column, "column id")))
	}
	if cfg.InvalidRows != "" {
		var rows []int
		for _, s := range strings.Split(cfg.InvalidRows, ",") {
			rows = append(rows, mustInt(strings.TrimSpace(s), "invalid row"))
		}
		opts = append(opts, oracle.WithInvalidRows(rows...))
	}

	rows, err := oracle.ExpectedRowsFromFile(cfg.FilePath, opts...)
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}

	out.ExpectedRows(rows)
}

func runSimulate(ctx context.Context, cfg cliConfig, out textOutput) {
	var client metastore.Client
	var err error
	if cfg.Offline {
		client = metastore.NewMemClient()
	} else {
		client, err = metastore.NewThriftClient(cfg.Metastore, nil)
		if err != nil {
			out.Error(err)
			os.Exit(1)
		}
	}
	defer client.Close()

	fio, err := icio.LoadFS(ctx, cfg.Warehouse)
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}

	sim := &harness.Simulator{Client: client, FS: fio, Warehouse: cfg.Warehouse}
	if cfg.Offline {
		// Without a live table there is nothing to orphan; seed one first.
		var rows []presto.NationRow
		if cfg.FilePath != "" {
			rows, err = oracle.ExpectedRowsFromFile(cfg.FilePath, oracle.WithReplicationFactor(1))
			if err != nil {
				out.Error(err)
				os.Exit(1)
			}
		}
		if err := sim.SeedNationTable(ctx, cfg.Database, cfg.Table, rows); err != nil {
			out.Error(err)
			os.Exit(1)
		}
	}

	writeID, err := sim.SimulateAbortedTransaction(ctx, cfg.Database, cfg.Table)
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}

	out.Simulated(cfg.Table, writeID)
}
