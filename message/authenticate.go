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

package message

import (
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// Authenticate is sent by the server in reply to Startup when authentication is required.
type Authenticate struct {
	Authenticator string
}

func (m *Authenticate) IsResponse() bool         { return true }
func (m *Authenticate) OpCode() primitive.OpCode { return primitive.OpCodeAuthenticate }
func (m *Authenticate) String() string           { return "AUTHENTICATE " + m.Authenticator }

type authenticateCodec struct{}

func init() { RegisterCodec(&authenticateCodec{}) }

func (c *authenticateCodec) OpCode() primitive.OpCode { return primitive.OpCodeAuthenticate }

func (c *authenticateCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	authenticate, ok := msg.(*Authenticate)
	if !ok {
		return fmt.Errorf("expected *message.Authenticate, got %T", msg)
	}
	return primitive.WriteString(authenticate.Authenticator, dest)
}

func (c *authenticateCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	authenticator, err := primitive.ReadString(source)
	if err != nil {
		return nil, fmt.Errorf("cannot decode AUTHENTICATE authenticator: %w", err)
	}
	return &Authenticate{Authenticator: authenticator}, nil
}

// Credentials is the v1/v2 CREDENTIALS request answering an AUTHENTICATE challenge for
// org.apache.cassandra.auth.PasswordAuthenticator. Any other authenticator class fails
// the connection rather than being represented here.
type Credentials struct {
	Username string
	Password string
}

func (m *Credentials) IsResponse() bool         { return false }
func (m *Credentials) OpCode() primitive.OpCode { return primitive.OpCodeCredentials }
func (m *Credentials) String() string           { return fmt.Sprintf("CREDENTIALS {username: %s}", m.Username) }

type credentialsCodec struct{}

func init() { RegisterCodec(&credentialsCodec{}) }

func (c *credentialsCodec) OpCode() primitive.OpCode { return primitive.OpCodeCredentials }

func (c *credentialsCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	creds, ok := msg.(*Credentials)
	if !ok {
		return fmt.Errorf("expected *message.Credentials, got %T", msg)
	}
	return primitive.WriteStringMap(map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	}, dest)
}

func (c *credentialsCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	m, err := primitive.ReadStringMap(source)
	if err != nil {
		return nil, fmt.Errorf("cannot decode CREDENTIALS: %w", err)
	}
	return &Credentials{Username: m["username"], Password: m["password"]}, nil
}
