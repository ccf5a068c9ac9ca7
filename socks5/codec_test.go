package socks5

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestWriteMessageSingleWrite(t *testing.T) {
	msgs := []Message{
		NewMethodRequest(MethodNoAuth, MethodUserPass),
		MethodResponse{Method: MethodNoAuth},
		UserPassRequest{Username: "user", Password: "pass"},
		UserPassResponse{Status: AuthSucceeded},
		Request{Cmd: CmdConnect, Addr: Addr{Type: AddrDomain, Domain: "example.com", Port: 443}},
		Response{Reply: ReplySucceeded, Addr: UnspecifiedAddr()},
		UDPHeader{Addr: UnspecifiedAddr(), Payload: []byte("datagram")},
	}
	for _, m := range msgs {
		w := &countingWriter{}
		assert.NoError(t, WriteMessage(w, m))
		assert.Equal(t, 1, w.writes)
		assert.Equal(t, m.Length(), w.Len())
		assert.Equal(t, m.AppendTo(nil), w.Bytes())
	}
}

func TestWriteMessageLargerThanPool(t *testing.T) {
	big := UDPHeader{Addr: UnspecifiedAddr(), Payload: bytes.Repeat([]byte{0xAB}, 4096)}
	w := &countingWriter{}
	assert.NoError(t, WriteMessage(w, big))
	assert.Equal(t, 1, w.writes)
	assert.Equal(t, big.Length(), w.Len())
}
