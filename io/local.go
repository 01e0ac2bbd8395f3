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

package io

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// LocalFS is a FileIO implementation that interacts with the local file
// system directly, without going through a blob bucket.
type LocalFS struct{}

func (LocalFS) Open(_ context.Context, name string) (File, error) {
	return os.Open(strings.TrimPrefix(name, "file://"))
}

func (LocalFS) Create(_ context.Context, name string) (FileWriter, error) {
	filename := strings.TrimPrefix(name, "file://")
	if err := os.MkdirAll(filepath.Dir(filename), 0o777); err != nil {
		return nil, err
	}

	return os.Create(filename)
}

func (LocalFS) Remove(_ context.Context, name string) error {
	return os.Remove(strings.TrimPrefix(name, "file://"))
}

func (LocalFS) List(_ context.Context, prefix string) ([]string, error) {
	root := strings.TrimPrefix(prefix, "file://")

	var names []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}
