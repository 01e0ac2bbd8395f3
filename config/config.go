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

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	cfgFile                  = ".presto-acid.yaml"
	defaultMetastoreURI      = "thrift://localhost:9083"
	defaultWarehouse         = "file:///user/hive/warehouse"
	defaultDatabase          = "default"
	defaultReplicationFactor = 1000
)

type Config struct {
	// MetastoreURI is the thrift endpoint of the Hive metastore.
	MetastoreURI string `yaml:"metastore-uri"`
	// Warehouse is the root under which live table directories reside.
	Warehouse string `yaml:"warehouse"`
	// ResourceRoot holds test resources (nation.tbl, nation_delete_deltas),
	// resolved separately from the warehouse.
	ResourceRoot string `yaml:"resource-root"`
	Database     string `yaml:"database"`
	// ReplicationFactor is the oracle's row explosion factor.
	ReplicationFactor int `yaml:"replication-factor"`
}

func LoadConfig(configPath string) []byte {
	var path string
	if len(configPath) > 0 {
		path = configPath
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(homeDir, cfgFile)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return file
}

func ParseConfig(file []byte) Config {
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return withDefaults(Config{})
	}

	return withDefaults(cfg)
}

func withDefaults(cfg Config) Config {
	if cfg.MetastoreURI == "" {
		cfg.MetastoreURI = defaultMetastoreURI
	}
	if cfg.Warehouse == "" {
		cfg.Warehouse = defaultWarehouse
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if cfg.ReplicationFactor <= 0 {
		cfg.ReplicationFactor = defaultReplicationFactor
	}

	return cfg
}

func fromConfigFiles() Config {
	dir := os.Getenv("PRESTO_ACID_HOME")
	if dir != "" {
		dir = filepath.Join(dir, cfgFile)
	}

	return ParseConfig(LoadConfig(dir))
}

var EnvConfig = fromConfigFiles()
