package server

import (
	"bufio"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/josexy/logx"
	"github.com/josexy/sockswire/httpraw"
	"github.com/josexy/sockswire/relay"
	"github.com/josexy/sockswire/socks5"
	"github.com/josexy/sockswire/util/logger"
)

func (s *Server) handleConnect(conn net.Conn, req socks5.Request) {
	target := req.Addr.String()
	dst, err := net.DialTimeout("tcp", target, s.cfg.DialTimeout)
	if err != nil {
		logger.Logger.Warn("connect failed",
			logx.String("client", conn.RemoteAddr().String()),
			logx.String("target", target),
			logx.Error("error", err),
		)
		s.reply(conn, dialErrorReply(err))
		return
	}

	bindAddr, err := socks5.ParseAddrString(dst.LocalAddr().String())
	if err != nil {
		dst.Close()
		s.reply(conn, socks5.ReplyGeneralFailure)
		return
	}
	if err := socks5.WriteMessage(conn, socks5.Response{Reply: socks5.ReplySucceeded, Addr: bindAddr}); err != nil {
		dst.Close()
		return
	}

	logger.Logger.Info("connect",
		logx.String("client", conn.RemoteAddr().String()),
		logx.String("target", target),
	)
	relay.CopyBidirectional(conn, dst, s.cfg.IOTimeout)
}

func (s *Server) serveHTTPConnect(conn net.Conn) {
	br := bufio.NewReader(conn)
	req, err := httpraw.ReadConnectRequest(br)
	if err != nil {
		conn.Write(httpraw.StatusBadRequest)
		return
	}
	if !s.cfg.Users.Empty() {
		username, password, ok := httpraw.BasicProxyAuth(req)
		if !ok || !s.cfg.Users.Validate(username, password) {
			conn.Write(httpraw.StatusProxyAuthRequired)
			return
		}
	}

	dst, err := net.DialTimeout("tcp", req.Host, s.cfg.DialTimeout)
	if err != nil {
		conn.Write(httpraw.StatusBadGateway)
		return
	}
	if _, err := conn.Write(httpraw.StatusConnectionEstablished); err != nil {
		dst.Close()
		return
	}

	logger.Logger.Info("http connect",
		logx.String("client", conn.RemoteAddr().String()),
		logx.String("target", req.Host),
	)
	relay.CopyBidirectional(conn, dst, s.cfg.IOTimeout)
}

// dialErrorReply maps a dial failure onto the closest SOCKS5 reply
// code.
func dialErrorReply(err error) socks5.Reply {
	var se *os.SyscallError
	if errors.As(err, &se) {
		switch se.Err {
		case syscall.ECONNREFUSED:
			return socks5.ReplyConnectionRefused
		case syscall.ENETUNREACH:
			return socks5.ReplyNetworkUnreachable
		case syscall.EHOSTUNREACH:
			return socks5.ReplyHostUnreachable
		}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return socks5.ReplyHostUnreachable
	}
	return socks5.ReplyGeneralFailure
}
