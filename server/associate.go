package server

import (
	"io"
	"net"

	"github.com/josexy/logx"
	"github.com/josexy/sockswire/relay"
	"github.com/josexy/sockswire/socks5"
	"github.com/josexy/sockswire/util/logger"
)

// handleAssociate binds a UDP relay socket for the client and keeps the
// TCP connection open for the lifetime of the association; when the
// client closes it, the relay is torn down.
func (s *Server) handleAssociate(conn net.Conn, req socks5.Request) {
	clientConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		s.reply(conn, socks5.ReplyGeneralFailure)
		return
	}
	remoteConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		clientConn.Close()
		s.reply(conn, socks5.ReplyGeneralFailure)
		return
	}

	// advertise the server address the client already reached, with
	// the freshly bound relay port
	bindIP := conn.LocalAddr().(*net.TCPAddr).IP
	bindPort := uint16(clientConn.LocalAddr().(*net.UDPAddr).Port)
	bindAddr, err := socks5.AddrFromHostPort(bindIP.String(), bindPort)
	if err != nil {
		clientConn.Close()
		remoteConn.Close()
		s.reply(conn, socks5.ReplyGeneralFailure)
		return
	}
	if err := socks5.WriteMessage(conn, socks5.Response{Reply: socks5.ReplySucceeded, Addr: bindAddr}); err != nil {
		clientConn.Close()
		remoteConn.Close()
		return
	}

	logger.Logger.Info("udp associate",
		logx.String("client", conn.RemoteAddr().String()),
		logx.String("bind", bindAddr.String()),
	)

	go relay.RelaySocksUDP(clientConn, remoteConn)

	// the TCP side only signals association lifetime
	io.Copy(io.Discard, conn)
	clientConn.Close()
	remoteConn.Close()
}
