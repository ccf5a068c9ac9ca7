//go:build unix

package proxyproto

import (
	"bytes"
	"io"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tcpPair(t *testing.T) (client net.Conn, server *net.TCPConn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err == nil {
			server = conn.(*net.TCPConn)
		}
	}()
	client, err = net.Dial("tcp", ln.Addr().String())
	assert.NoError(t, err)
	<-done
	assert.NotNil(t, server)
	return client, server
}

func TestParseTCP(t *testing.T) {
	payload := []byte{
		127, 0, 0, 1,
		127, 0, 0, 2,
		0x04, 0xD2, // 1234
		0x00, 0x50, // 80
	}
	frame := buildFrame(0x21, 0x11, payload)
	trailing := []byte("socks handshake follows")

	client, server := tcpPair(t)
	defer client.Close()
	defer server.Close()

	_, err := client.Write(append(frame, trailing...))
	assert.NoError(t, err)

	hdr, err := ParseTCP(server)
	assert.NoError(t, err)
	assert.Equal(t, Proxy, hdr.Command)
	if assert.NotNil(t, hdr.Addresses) {
		assert.Equal(t, netip.MustParseAddrPort("127.0.0.1:1234"), hdr.Addresses.Source)
		assert.Equal(t, netip.MustParseAddrPort("127.0.0.2:80"), hdr.Addresses.Destination)
	}

	// only the frame was consumed
	rest := make([]byte, len(trailing))
	_, err = io.ReadFull(server, rest)
	assert.NoError(t, err)
	assert.Equal(t, trailing, rest)
}

func TestParseTCPInvalidSignature(t *testing.T) {
	raw := []byte("CONNECT example.com:443 HTTP/1.1\r\n\r\n")

	client, server := tcpPair(t)
	defer client.Close()
	defer server.Close()

	_, err := client.Write(raw)
	assert.NoError(t, err)

	_, err = ParseTCP(server)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// nothing was consumed from the socket
	client.Close()
	rest, err := io.ReadAll(server)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(raw, rest))
}
