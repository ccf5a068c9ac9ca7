//go:build unix

package server

import (
	"net"

	"github.com/josexy/sockswire/proxyproto"
)

// parsePreamble peeks the preamble straight off the TCP socket, so a
// signature mismatch leaves every byte in the kernel buffer and no user
// space replay is needed.
func parsePreamble(conn net.Conn) (proxyproto.Header, net.Conn, error) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return parsePreambleBuffered(conn)
	}
	hdr, err := proxyproto.ParseTCP(tc)
	return hdr, conn, err
}
