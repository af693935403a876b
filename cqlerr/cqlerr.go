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

// Package cqlerr collects the error kinds a caller of this client needs to tell apart:
// failures reaching or speaking to a node, versus a server-side CQL error response, versus a
// client-side configuration or cluster-routing problem.
package cqlerr

import (
	"fmt"

	"github.com/mbrt/cqlnative/message"
)

// TransportError wraps a failure at the TCP/dial layer: connection refused, reset, or closed
// mid-request.
type TransportError struct {
	Address string
	Cause   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error talking to %s: %v", e.Address, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// ProtocolError wraps a violation of the wire format itself: a malformed frame, an
// unsupported protocol version, an opcode with no registered codec.
type ProtocolError struct {
	Cause error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("protocol error: %v", e.Cause) }
func (e *ProtocolError) Unwrap() error { return e.Cause }

// ServerError wraps an ERROR response the server sent back for a request: the query was
// understood but could not be executed (syntax error, timeout, unavailable, and so on).
type ServerError struct {
	Message *message.Error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error [%v]: %s", e.Message.Code, e.Message.Message)
}

// AuthenticationError wraps a failure to complete the AUTHENTICATE/CREDENTIALS handshake:
// missing credentials, rejected credentials, or an authenticator class this client cannot
// speak (anything other than PasswordAuthenticator).
type AuthenticationError struct {
	Authenticator string
	Cause         error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error (authenticator %s): %v", e.Authenticator, e.Cause)
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// ConfigurationError reports a caller mistake that the client can detect without talking to
// any node: an unsupported protocol version, a wrong number of bind arguments, an unknown or
// duplicate named bind marker, a missing contact point. Consistency levels are not validated.
type ConfigurationError struct {
	Cause error
}

func (e *ConfigurationError) Error() string { return fmt.Sprintf("configuration error: %v", e.Cause) }
func (e *ConfigurationError) Unwrap() error { return e.Cause }

// EncodingError wraps a failure converting between a Go value and its CQL wire
// representation: wrong Go type for a bind marker, a column value that doesn't fit its
// declared type.
type EncodingError struct {
	Cause error
}

func (e *EncodingError) Error() string { return fmt.Sprintf("encoding error: %v", e.Cause) }
func (e *EncodingError) Unwrap() error { return e.Cause }

// ClusterError reports a failure in node selection or failover: no primary connection is
// available, every known node is down, or a routing decision could not be made.
type ClusterError struct {
	Cause error
}

func (e *ClusterError) Error() string { return fmt.Sprintf("cluster error: %v", e.Cause) }
func (e *ClusterError) Unwrap() error { return e.Cause }
