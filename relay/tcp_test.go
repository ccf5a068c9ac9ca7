package relay

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tcpPair(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer ln.Close()

	ch := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			ch <- c
		}
	}()
	client, err := net.Dial("tcp", ln.Addr().String())
	assert.NoError(t, err)
	server := <-ch
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

func TestCopyBidirectional(t *testing.T) {
	c1, s1 := tcpPair(t)
	c2, s2 := tcpPair(t)

	done := make(chan struct{})
	go func() {
		_ = CopyBidirectional(s1, c2, 0)
		close(done)
	}()

	// echo on the far side of the relay
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := s2.Read(buf)
			if err != nil {
				return
			}
			if _, err := s2.Write(buf[:n]); err != nil {
				return
			}
		}
	}()

	payload := []byte("through the relay and back")
	_, err := c1.Write(payload)
	assert.NoError(t, err)

	got := make([]byte, len(payload))
	c1.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = io.ReadFull(c1, got)
	assert.NoError(t, err)
	assert.Equal(t, payload, got)

	// closing one endpoint tears down the whole pipe
	c1.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not shut down after endpoint close")
	}
}
