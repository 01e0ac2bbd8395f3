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

// Package metastore talks to the Hive metastore transaction API. Transport
// failures surface unchanged; the harness aborts the scenario instead of
// retrying.
package metastore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/beltran/gohive"
	"github.com/beltran/gohive/hive_metastore"

	"github.com/harmandeeps/presto"
)

// Client is the transaction surface of the metastore this harness needs.
type Client interface {
	Close() error

	OpenTransaction(ctx context.Context, user string) (int64, error)
	AllocateTableWriteIDs(ctx context.Context, db, table string, txnIDs []int64) ([]presto.WriteID, error)
	CommitTransaction(ctx context.Context, txnID int64) error
	AbortTransaction(ctx context.Context, txnID int64) error
}

// Options configures the thrift connection.
type Options struct {
	// RequestTimeout bounds each metastore RPC. Defaults to 10 seconds.
	RequestTimeout time.Duration
	KerberosAuth   bool
}

const defaultRequestTimeout = 10 * time.Second

type thriftClient struct {
	client  *gohive.HiveMetastoreClient
	timeout time.Duration
}

// NewThriftClient connects to a metastore URI like "thrift://host:9083".
func NewThriftClient(uri string, opts *Options) (Client, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid URI: %w", err)
	}

	host := parsed.Hostname()
	portStr := parsed.Port()
	if portStr == "" {
		portStr = "9083"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	auth := "NOSASL"
	timeout := defaultRequestTimeout
	if opts != nil {
		if opts.KerberosAuth {
			auth = "KERBEROS"
		}
		if opts.RequestTimeout > 0 {
			timeout = opts.RequestTimeout
		}
	}

	config := gohive.NewMetastoreConnectConfiguration()
	config.TransportMode = "binary"

	client, err := gohive.ConnectToMetastore(host, port, auth, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to metastore: %w", err)
	}

	return &thriftClient{client: client, timeout: timeout}, nil
}

func (c *thriftClient) Close() error {
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}

	return nil
}

func (c *thriftClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *thriftClient) OpenTransaction(ctx context.Context, user string) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req := hive_metastore.NewOpenTxnRequest()
	req.NumTxns = 1
	req.User = user
	req.Hostname = "localhost"

	resp, err := c.client.Client.OpenTxns(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(resp.TxnIds) != 1 {
		return 0, fmt.Errorf("expected 1 transaction id, got %d", len(resp.TxnIds))
	}

	return resp.TxnIds[0], nil
}

func (c *thriftClient) AllocateTableWriteIDs(ctx context.Context, db, table string, txnIDs []int64) ([]presto.WriteID, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req := hive_metastore.NewAllocateTableWriteIdsRequest()
	req.DbName = db
	req.TableName = table
	req.TxnIds = txnIDs

	resp, err := c.client.Client.AllocateTableWriteIds(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]presto.WriteID, 0, len(resp.TxnToWriteIds))
	for _, tw := range resp.TxnToWriteIds {
		out = append(out, presto.WriteID(tw.WriteId))
	}

	return out, nil
}

func (c *thriftClient) CommitTransaction(ctx context.Context, txnID int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req := hive_metastore.NewCommitTxnRequest()
	req.Txnid = txnID

	return c.client.Client.CommitTxn(ctx, req)
}

func (c *thriftClient) AbortTransaction(ctx context.Context, txnID int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req := hive_metastore.NewAbortTxnRequest()
	req.Txnid = txnID

	return c.client.Client.AbortTxn(ctx, req)
}
