package stream

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tcpPair(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer ln.Close()

	var server net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		server, _ = ln.Accept()
	}()
	client, err := net.Dial("tcp", ln.Addr().String())
	assert.NoError(t, err)
	<-done
	assert.NotNil(t, server)
	return client, server
}

func TestCloseWriteHalfCloses(t *testing.T) {
	client, server := tcpPair(t)
	defer server.Close()

	sc := New(client)
	defer sc.Close()

	_, err := sc.Write([]byte("request"))
	assert.NoError(t, err)
	assert.NoError(t, sc.CloseWrite())

	// peer drains the request and observes EOF
	buf, err := io.ReadAll(server)
	assert.NoError(t, err)
	assert.Equal(t, []byte("request"), buf)

	// the read side stays open
	_, err = server.Write([]byte("response"))
	assert.NoError(t, err)
	resp := make([]byte, 8)
	_, err = io.ReadFull(sc, resp)
	assert.NoError(t, err)
	assert.Equal(t, []byte("response"), resp)
}

func TestCloseIsIdempotentWithFinalizer(t *testing.T) {
	client, server := tcpPair(t)
	defer server.Close()

	sc := New(client)
	assert.NoError(t, sc.Close())
	// a second close reports the underlying error, nothing panics
	assert.Error(t, sc.Close())
}
