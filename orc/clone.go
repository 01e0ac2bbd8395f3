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

package orc

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"golang.org/x/sync/errgroup"

	icio "github.com/harmandeeps/presto/io"
)

// WriteRecords writes the given batches to one bucket file, flushing and
// closing the writer on every exit path.
func WriteRecords(ctx context.Context, fio icio.FileIO, name string, recs ...arrow.Record) (err error) {
	out, err := fio.Create(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	w := ipc.NewWriter(out, ipc.WithSchema(NationSchema))
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	return nil
}

// ReadRecords drains one bucket file into a slice of record batches. The
// caller owns the returned records and must Release them.
func ReadRecords(ctx context.Context, fio icio.FileIO, name string) (recs []arrow.Record, err error) {
	in, err := fio.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); err == nil {
			err = cerr
		}
	}()

	rdr, err := ipc.NewReader(in)
	if err != nil {
		return nil, err
	}
	defer rdr.Release()

	defer func() {
		if err != nil {
			for _, r := range recs {
				r.Release()
			}
			recs = nil
		}
	}()

	for rdr.Next() {
		rec := rdr.Record()
		rec.Retain()
		recs = append(recs, rec)
	}

	return recs, rdr.Err()
}

// CloneBatches copies every batch from the source bucket file into each
// destination, writing the destinations concurrently. The destinations end
// up byte-equivalent in content regardless of which transaction owns them;
// the reader under test must filter on transaction state alone.
func CloneBatches(ctx context.Context, fio icio.FileIO, src string, dsts ...string) error {
	recs, err := ReadRecords(ctx, fio, src)
	if err != nil {
		return err
	}
	defer func() {
		for _, r := range recs {
			r.Release()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, dst := range dsts {
		g.Go(func() error {
			return WriteRecords(gctx, fio, dst, recs...)
		})
	}

	return g.Wait()
}
