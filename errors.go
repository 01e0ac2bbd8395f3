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

package presto

import "errors"

var (
	// ErrInvalidState is returned for illegal transaction transitions,
	// such as committing an aborted transaction or allocating a write id
	// on a terminal one.
	ErrInvalidState = errors.New("invalid transaction state transition")

	// ErrInvalidRange is returned when a delta location is constructed
	// with minWriteID > maxWriteID.
	ErrInvalidRange = errors.New("invalid write id range")

	// ErrMalformedName is returned when a directory name cannot be parsed
	// back into a delta location.
	ErrMalformedName = errors.New("malformed delta directory name")

	// ErrInvalidArgument is returned for bad oracle parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedRow is returned when a base dataset line does not have
	// the expected number of columns.
	ErrMalformedRow = errors.New("malformed base dataset row")

	// ErrParse is returned when a numeric column holds non-numeric content.
	ErrParse = errors.New("cannot parse column value")
)
