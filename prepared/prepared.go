// Copyright 2020 DataStax
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prepared wraps a server-side prepared statement: its query id, bind-variable
// metadata, and the positional/named binding of Go values to those variables.
package prepared

import (
	"context"
	"fmt"

	"github.com/mbrt/cqlnative/column"
	"github.com/mbrt/cqlnative/cqlerr"
	"github.com/mbrt/cqlnative/datacodec"
	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// Executor sends a prepared EXECUTE request to whatever node the caller's cluster topology
// picks, and returns the decoded response. Implemented by *cluster.Cluster; declared here,
// rather than imported from there, so that prepared does not depend on cluster.
type Executor interface {
	ExecutePrepared(ctx context.Context, msg *message.Execute) (message.Message, error)
}

// Statement is a prepared CQL statement: the text that was prepared, the id the server
// returned for it, and the metadata describing its bind variables and (for SELECTs) its
// result columns.
type Statement struct {
	Query             string
	QueryId           []byte
	VariablesMetadata *column.Metadata
	ResultMetadata    *column.Metadata

	version  primitive.ProtocolVersion
	executor Executor
}

// New wraps a PreparedResult returned by the server into a bindable Statement. version is the
// protocol version negotiated on the connection that prepared the statement, and is used to
// encode bind values the same way it will be used to encode the EXECUTE request itself.
func New(query string, result *message.PreparedResult, version primitive.ProtocolVersion, executor Executor) *Statement {
	return &Statement{
		Query:             query,
		QueryId:           result.PreparedQueryId,
		VariablesMetadata: result.VariablesMetadata,
		ResultMetadata:    result.ResultMetadata,
		version:           version,
		executor:          executor,
	}
}

// Bound is a Statement together with its bind values, ready to Execute.
type Bound struct {
	statement *Statement
	options   *message.QueryOptions
}

// Bind positionally binds args to this statement's '?' markers, in declaration order. The
// number of args must match the number of bind variables.
func (s *Statement) Bind(args ...interface{}) (*Bound, error) {
	vars := s.VariablesMetadata.Columns
	if len(args) != len(vars) {
		return nil, &cqlerr.ConfigurationError{
			Cause: fmt.Errorf("statement has %d bind variables, got %d arguments", len(vars), len(args)),
		}
	}
	values := make([][]byte, len(args))
	for i, arg := range args {
		encoded, err := s.encodeValue(vars[i].Type, arg)
		if err != nil {
			return nil, &cqlerr.EncodingError{Cause: fmt.Errorf("bind variable %d (%s): %w", i, vars[i].Name, err)}
		}
		values[i] = encoded
	}
	return &Bound{
		statement: s,
		options:   &message.QueryOptions{Consistency: primitive.ConsistencyLevelOne, PositionalValues: values},
	}, nil
}

// BindNamed binds args to this statement's ':name' markers by name. Every bind variable not
// present in args is sent as CQL null; a key in args that names no bind variable is a
// configuration error, since it most likely indicates a typo.
func (s *Statement) BindNamed(args map[string]interface{}) (*Bound, error) {
	vars := s.VariablesMetadata.Columns
	known := make(map[string]bool, len(vars))
	for _, v := range vars {
		if known[v.Name] {
			return nil, &cqlerr.ConfigurationError{Cause: fmt.Errorf("bind variable name %q is reused", v.Name)}
		}
		known[v.Name] = true
	}
	for name := range args {
		if !known[name] {
			return nil, &cqlerr.ConfigurationError{Cause: fmt.Errorf("no bind variable named %q in %s", name, s.Query)}
		}
	}
	values := make(map[string][]byte, len(vars))
	for _, v := range vars {
		arg, present := args[v.Name]
		if !present {
			values[v.Name] = nil
			continue
		}
		encoded, err := s.encodeValue(v.Type, arg)
		if err != nil {
			return nil, &cqlerr.EncodingError{Cause: fmt.Errorf("bind variable %q: %w", v.Name, err)}
		}
		values[v.Name] = encoded
	}
	return &Bound{
		statement: s,
		options:   &message.QueryOptions{Consistency: primitive.ConsistencyLevelOne, NamedValues: values},
	}, nil
}

// encodeValue looks up the codec for a bind variable's declared CQL type and uses it to encode
// arg. A nil arg always encodes to CQL null regardless of type.
func (s *Statement) encodeValue(dt datatype.DataType, arg interface{}) ([]byte, error) {
	if arg == nil {
		return nil, nil
	}
	codec, err := datacodec.NewCodec(dt)
	if err != nil {
		return nil, err
	}
	return codec.Encode(arg, s.version)
}

// WithConsistency overrides the default consistency level (ONE) for this bound statement.
func (b *Bound) WithConsistency(cl primitive.ConsistencyLevel) *Bound {
	b.options.Consistency = cl
	return b
}

// WithPageSize sets the desired page size for the result set.
func (b *Bound) WithPageSize(size int32) *Bound {
	b.options.PageSize = size
	return b
}

// WithPagingState resumes a previous query from a RowsResult's paging state.
func (b *Bound) WithPagingState(state []byte) *Bound {
	b.options.PagingState = state
	return b
}

// Execute runs this bound statement via the owning cluster and returns the decoded response.
func (b *Bound) Execute(ctx context.Context) (message.Message, error) {
	msg := &message.Execute{QueryId: b.statement.QueryId, Options: b.options}
	return b.statement.executor.ExecutePrepared(ctx, msg)
}
