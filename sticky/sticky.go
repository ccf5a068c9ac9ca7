// Package sticky re-attaches bytes that were already pulled off a
// connection, e.g. by a bufio peek during PROXY preamble detection or a
// first-byte protocol sniff, so the stream can be decoded from its true
// start.
package sticky

import (
	"io"
	"net"
	"sync"
)

// SharedReader drains r before falling through to the wrapped Conn.
// Writes and the rest of the net.Conn surface go straight to the Conn.
type SharedReader struct {
	r io.Reader
	net.Conn
	mu sync.Mutex
}

func NewSharedReader(r io.Reader, conn net.Conn) *SharedReader {
	return &SharedReader{
		r:    r,
		Conn: conn,
	}
}

func (c *SharedReader) Read(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.r == nil {
		return c.Conn.Read(b)
	}
	n, err := c.r.Read(b)
	if err == io.EOF {
		c.r = nil
		var n2 int
		n2, err = c.Conn.Read(b[n:])
		n += n2
	}
	return n, err
}
