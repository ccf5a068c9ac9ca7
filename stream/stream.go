// Package stream wraps a duplex connection with half-close support and
// a best-effort safety net for connections that go out of scope without
// an explicit Close.
package stream

import (
	"net"
	"runtime"
)

// CloseWriter is satisfied by connections that support shutting down
// only the write side, e.g. *net.TCPConn.
type CloseWriter interface {
	CloseWrite() error
}

// Conn wraps a net.Conn. If a Conn becomes unreachable without Close
// having been called, a finalizer closes the underlying connection.
// That is a leak guard, not a teardown mechanism: the finalizer runs at
// the garbage collector's leisure, or never. Callers that need the
// connection gone must call Close (or CloseWrite plus drain) themselves.
type Conn struct {
	net.Conn
}

func New(c net.Conn) *Conn {
	sc := &Conn{Conn: c}
	runtime.SetFinalizer(sc, (*Conn).finalize)
	return sc
}

// CloseWrite half-closes the connection so the peer observes EOF while
// reads stay open. Connections without half-close support fall back to
// a full Close.
func (c *Conn) CloseWrite() error {
	if cw, ok := c.Conn.(CloseWriter); ok {
		return cw.CloseWrite()
	}
	return c.Conn.Close()
}

func (c *Conn) Close() error {
	runtime.SetFinalizer(c, nil)
	return c.Conn.Close()
}

func (c *Conn) finalize() {
	_ = c.Conn.Close()
}
