package socks5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadMethodRequest(t *testing.T) {
	req, err := ReadMethodRequest(bytes.NewReader([]byte{0x05, 0x02, 0x00, 0x02}))
	assert.NoError(t, err)
	assert.Equal(t, []Method{MethodNoAuth, MethodUserPass}, req.Methods)
	assert.True(t, req.Contains(MethodNoAuth))
	assert.True(t, req.Contains(MethodUserPass))
	assert.False(t, req.Contains(MethodGSSAPI))
}

func TestMethodRequestRoundTrip(t *testing.T) {
	req := NewMethodRequest(MethodNoAuth, MethodGSSAPI, MethodUserPass)
	raw := req.AppendTo(nil)
	assert.Equal(t, req.Length(), len(raw))

	decoded, err := ReadMethodRequest(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, req, decoded)
}

func TestReadMethodRequestBadVersion(t *testing.T) {
	_, err := ReadMethodRequest(bytes.NewReader([]byte{0x04, 0x01, 0x00}))
	assert.ErrorIs(t, err, ErrVersion5Invalid)
}

func TestMethodResponseRoundTrip(t *testing.T) {
	for _, method := range []Method{MethodNoAuth, MethodUserPass, MethodNoAcceptable} {
		resp := MethodResponse{Method: method}
		raw := resp.AppendTo(nil)
		assert.Equal(t, resp.Length(), len(raw))

		decoded, err := ReadMethodResponse(bytes.NewReader(raw))
		assert.NoError(t, err)
		assert.Equal(t, resp, decoded)
	}
}

func TestReadMethodRequestStopsAtFrameBoundary(t *testing.T) {
	raw := append([]byte{0x05, 0x01, 0x00}, 0x05, 0x01, 0x00, 0x01) // next frame follows
	r := bytes.NewReader(raw)
	_, err := ReadMethodRequest(r)
	assert.NoError(t, err)
	assert.Equal(t, 4, r.Len())
}
