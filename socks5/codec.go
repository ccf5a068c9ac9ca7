// Package socks5 implements the SOCKS version 5 wire format: method
// negotiation, username/password sub-negotiation, requests/responses and
// the UDP relay header. The package only encodes and decodes frames; it
// never dials, listens or selects authentication policy.
package socks5

import (
	"io"

	"github.com/josexy/sockswire/bufferpool"
)

// Message is implemented by every frame type in this package.
//
// AppendTo appends the exact wire encoding to b and returns the extended
// slice; it performs no I/O. Length reports the exact number of bytes
// AppendTo will append, so callers can pre-size buffers.
type Message interface {
	AppendTo(b []byte) []byte
	Length() int
}

var messagePool = bufferpool.NewBufferPool(bufferpool.MaxMessageBufferSize)

// WriteMessage encodes m into a single buffer and writes it with one
// Write call, avoiding a syscall per field for multi-field frames.
func WriteMessage(w io.Writer, m Message) error {
	n := m.Length()
	if n <= bufferpool.MaxMessageBufferSize {
		buf := messagePool.Get()
		defer messagePool.Put(buf)
		_, err := w.Write(m.AppendTo((*buf)[:0]))
		return err
	}
	_, err := w.Write(m.AppendTo(make([]byte, 0, n)))
	return err
}

// readByte avoids depending on io.ByteReader, which net.Conn does not
// implement.
func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r, b[:])
	return b[0], err
}
