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

// Package io provides the file-system client the ACID test harness uses to
// populate, list and delete warehouse delta directories.
package io

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// File is a readable warehouse file.
type File interface {
	io.ReadCloser
}

// FileWriter is a writable warehouse file. Close flushes; callers must
// close on every exit path, including when a copy fails partway.
type FileWriter interface {
	io.WriteCloser
}

// FileIO is the interface the harness needs from a file system. Remove is
// deliberately not idempotent on a missing target: absence surfaces as an
// error the harness treats as fatal.
type FileIO interface {
	Open(ctx context.Context, name string) (File, error)
	Create(ctx context.Context, name string) (FileWriter, error)
	Remove(ctx context.Context, name string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// LoadFS infers a FileIO implementation from a location's scheme. A scheme
// of "file://", "mem://" or an empty string resolves to a gocloud blob
// bucket; anything else is not implemented here.
func LoadFS(ctx context.Context, location string) (FileIO, error) {
	parsed, err := url.Parse(location)
	if err != nil {
		return nil, err
	}

	switch parsed.Scheme {
	case "file", "mem", "":
		return newBlobFileIO(ctx, location)
	default:
		return nil, fmt.Errorf("IO for location '%s' not implemented", location)
	}
}

func trimScheme(name string) string {
	if i := strings.Index(name, "://"); i >= 0 {
		return name[i+len("://"):]
	}

	return name
}
