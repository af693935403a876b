package cqlerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

func TestTransportErrorUnwrapsAndFormats(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransportError{Address: "10.0.0.1:9042", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "10.0.0.1:9042")
}

func TestProtocolErrorUnwraps(t *testing.T) {
	cause := errors.New("bad opcode")
	err := &ProtocolError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}

func TestServerErrorIncludesCodeAndMessage(t *testing.T) {
	err := &ServerError{Message: &message.Error{
		Code:    primitive.ErrorCodeInvalid,
		Message: "no such table",
	}}
	assert.Contains(t, err.Error(), "no such table")
}

func TestAuthenticationErrorUnwraps(t *testing.T) {
	cause := errors.New("bad credentials")
	err := &AuthenticationError{Authenticator: "org.apache.cassandra.auth.PasswordAuthenticator", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "PasswordAuthenticator")
}

func TestConfigurationErrorUnwraps(t *testing.T) {
	cause := errors.New("no contact points")
	err := &ConfigurationError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}

func TestEncodingErrorUnwraps(t *testing.T) {
	cause := errors.New("wrong go type")
	err := &EncodingError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}

func TestClusterErrorUnwraps(t *testing.T) {
	cause := errors.New("no primary available")
	err := &ClusterError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}
