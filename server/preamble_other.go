//go:build !unix

package server

import (
	"net"

	"github.com/josexy/sockswire/proxyproto"
)

func parsePreamble(conn net.Conn) (proxyproto.Header, net.Conn, error) {
	return parsePreambleBuffered(conn)
}
