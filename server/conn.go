package server

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"

	"github.com/josexy/logx"
	"github.com/josexy/sockswire/proxyproto"
	"github.com/josexy/sockswire/socks5"
	"github.com/josexy/sockswire/sticky"
	"github.com/josexy/sockswire/util/logger"
)

// handle runs one accepted connection through the protocol stack:
// PROXY v2 preamble (optional), then SOCKS5 or HTTP CONNECT depending
// on the first byte.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	if s.cfg.ProxyProtocol {
		c, ok := s.readProxyPreamble(conn)
		if !ok {
			return
		}
		conn = c
	}

	var first [1]byte
	if _, err := io.ReadFull(conn, first[:]); err != nil {
		return
	}
	conn = sticky.NewSharedReader(bytes.NewReader(first[:]), conn)

	if first[0] == socks5.Version {
		s.serveSocks(conn)
		return
	}
	if s.cfg.HTTPFallback {
		s.serveHTTPConnect(conn)
		return
	}
	logger.Logger.Warn("dropping non-socks connection",
		logx.String("client", conn.RemoteAddr().String()),
	)
}

// readProxyPreamble consumes a PROXY v2 preamble if one is present. A
// signature mismatch is not an error: the preamble parser consumed
// nothing, so the stream is re-read from its true start.
func (s *Server) readProxyPreamble(conn net.Conn) (net.Conn, bool) {
	hdr, conn, err := parsePreamble(conn)
	switch {
	case err == nil:
		if hdr.Addresses != nil {
			logger.Logger.Info("proxy protocol preamble",
				logx.String("command", hdr.Command.String()),
				logx.String("source", hdr.Addresses.Source.String()),
				logx.String("destination", hdr.Addresses.Destination.String()),
			)
		}
	case errors.Is(err, proxyproto.ErrInvalidSignature):
		// plain connection
	default:
		logger.Logger.Error("proxy protocol preamble failed", logx.Error("error", err))
		return nil, false
	}
	return conn, true
}

// parsePreambleBuffered is the generic preamble path for connections
// that do not expose a raw socket. Bytes the bufio reader pulled past
// the frame are replayed through a sticky reader.
func parsePreambleBuffered(conn net.Conn) (proxyproto.Header, net.Conn, error) {
	br := bufio.NewReaderSize(conn, 256)
	hdr, err := proxyproto.Parse(br)
	buffered := io.LimitReader(br, int64(br.Buffered()))
	return hdr, sticky.NewSharedReader(buffered, conn), err
}

func (s *Server) serveSocks(conn net.Conn) {
	req, err := socks5.ReadMethodRequest(conn)
	if err != nil {
		return
	}

	method := socks5.MethodNoAuth
	if !s.cfg.Users.Empty() {
		method = socks5.MethodUserPass
	}
	if !req.Contains(method) {
		socks5.WriteMessage(conn, socks5.MethodResponse{Method: socks5.MethodNoAcceptable})
		return
	}
	if err := socks5.WriteMessage(conn, socks5.MethodResponse{Method: method}); err != nil {
		return
	}
	if method == socks5.MethodUserPass && !s.subnegotiate(conn) {
		return
	}

	request, err := socks5.ReadRequest(conn)
	if err != nil {
		// translate decode errors into a wire reply before closing
		switch {
		case errors.Is(err, socks5.ErrUnsupportedCmd):
			s.reply(conn, socks5.ReplyCommandNotSupported)
		case errors.Is(err, socks5.ErrUnsupportedAType):
			s.reply(conn, socks5.ReplyAddressTypeNotSupported)
		}
		return
	}

	switch request.Cmd {
	case socks5.CmdConnect:
		s.handleConnect(conn, request)
	case socks5.CmdUDPAssociate:
		if !s.cfg.EnableUDP {
			s.reply(conn, socks5.ReplyCommandNotSupported)
			return
		}
		s.handleAssociate(conn, request)
	default:
		// BIND is not served
		s.reply(conn, socks5.ReplyCommandNotSupported)
	}
}

// subnegotiate runs the username/password exchange. A failed attempt is
// answered on the wire and the connection is closed; there is no retry.
func (s *Server) subnegotiate(conn net.Conn) bool {
	up, err := socks5.ReadUserPassRequest(conn)
	if err != nil {
		return false
	}
	if !s.cfg.Users.Validate(up.Username, up.Password) {
		logger.Logger.Warn("authentication rejected",
			logx.String("client", conn.RemoteAddr().String()),
			logx.String("username", up.Username),
		)
		socks5.WriteMessage(conn, socks5.UserPassResponse{Status: socks5.AuthFailed})
		return false
	}
	return socks5.WriteMessage(conn, socks5.UserPassResponse{Status: socks5.AuthSucceeded}) == nil
}

func (s *Server) reply(conn net.Conn, code socks5.Reply) error {
	return socks5.WriteMessage(conn, socks5.Response{Reply: code, Addr: socks5.UnspecifiedAddr()})
}
