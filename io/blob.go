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
	"io"
	"net/url"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
)

// blobFileIO implements FileIO on top of a gocloud.dev blob bucket. Local
// warehouse directories ride on fileblob; tests use memblob.
type blobFileIO struct {
	bucket *blob.Bucket
}

func newBlobFileIO(ctx context.Context, location string) (*blobFileIO, error) {
	parsed, err := url.Parse(location)
	if err != nil {
		return nil, err
	}

	var bucket *blob.Bucket
	if parsed.Scheme == "mem" {
		bucket = memblob.OpenBucket(nil)
	} else {
		bucket, err = fileblob.OpenBucket("/", &fileblob.Options{CreateDir: true})
		if err != nil {
			return nil, err
		}
	}

	return &blobFileIO{bucket: bucket}, nil
}

// key maps an absolute name like "file:///warehouse/t/delta_.../bucket_00000"
// onto a bucket key.
func (b *blobFileIO) key(name string) string {
	return strings.TrimPrefix(trimScheme(name), "/")
}

func (b *blobFileIO) Open(ctx context.Context, name string) (File, error) {
	return b.bucket.NewReader(ctx, b.key(name), nil)
}

func (b *blobFileIO) Create(ctx context.Context, name string) (FileWriter, error) {
	return b.bucket.NewWriter(ctx, b.key(name), nil)
}

func (b *blobFileIO) Remove(ctx context.Context, name string) error {
	return b.bucket.Delete(ctx, b.key(name))
}

func (b *blobFileIO) List(ctx context.Context, prefix string) ([]string, error) {
	iter := b.bucket.List(&blob.ListOptions{Prefix: b.key(prefix)})

	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, obj.Key)
	}

	return keys, nil
}
