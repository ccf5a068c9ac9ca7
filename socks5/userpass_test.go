package socks5

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPassRequestRoundTrip(t *testing.T) {
	req, err := NewUserPassRequest("admin", "s3cret")
	assert.NoError(t, err)

	raw := req.AppendTo(nil)
	assert.Equal(t, req.Length(), len(raw))
	assert.Equal(t, []byte{0x01, 0x05, 'a', 'd', 'm', 'i', 'n', 0x06, 's', '3', 'c', 'r', 'e', 't'}, raw)

	decoded, err := ReadUserPassRequest(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, req, decoded)
}

func TestNewUserPassRequestTooLong(t *testing.T) {
	_, err := NewUserPassRequest(strings.Repeat("u", 256), "p")
	assert.ErrorIs(t, err, ErrUserPassTooLong)

	_, err = NewUserPassRequest("u", strings.Repeat("p", 256))
	assert.ErrorIs(t, err, ErrUserPassTooLong)

	// 255 still fits the length byte
	req, err := NewUserPassRequest(strings.Repeat("u", 255), strings.Repeat("p", 255))
	assert.NoError(t, err)
	decoded, err := ReadUserPassRequest(bytes.NewReader(req.AppendTo(nil)))
	assert.NoError(t, err)
	assert.Equal(t, req, decoded)
}

func TestReadUserPassRequestBadVersion(t *testing.T) {
	_, err := ReadUserPassRequest(bytes.NewReader([]byte{0x05, 0x01, 'u', 0x01, 'p'}))
	assert.ErrorIs(t, err, ErrVersion1Invalid)
}

func TestUserPassResponse(t *testing.T) {
	resp := UserPassResponse{Status: AuthSucceeded}
	decoded, err := ReadUserPassResponse(bytes.NewReader(resp.AppendTo(nil)))
	assert.NoError(t, err)
	assert.True(t, decoded.Success())

	// any nonzero status is a failure value, not a decode error
	decoded, err = ReadUserPassResponse(bytes.NewReader([]byte{0x01, 0x7F}))
	assert.NoError(t, err)
	assert.False(t, decoded.Success())
}
