// Package client is a SOCKS5 client speaking through the socks5 codec
// types. It drives the method negotiation, the optional username/
// password sub-negotiation and the request exchange; connection reuse
// and retry policy stay with the caller.
package client

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/josexy/logx"
	"github.com/josexy/sockswire/socks5"
	"github.com/josexy/sockswire/stream"
	"github.com/josexy/sockswire/util/logger"
)

var defaultSupportMethods = []socks5.Method{
	socks5.MethodNoAuth,
	socks5.MethodUserPass,
}

type Socks5Client struct {
	Addr       string
	dialer     net.Dialer
	conn       net.Conn
	udpConn    net.PacketConn
	timeout    time.Duration
	authMethod socks5.Method
	authInfo   *url.Userinfo
}

func NewSocks5Client(addr string) *Socks5Client {
	return &Socks5Client{
		Addr:       addr,
		timeout:    time.Second * 10,
		authMethod: socks5.MethodNoAuth,
	}
}

func (c *Socks5Client) SetSocksAuth(username, password string) {
	c.authInfo = url.UserPassword(username, password)
	c.authMethod = socks5.MethodUserPass
}

func (c *Socks5Client) Close() (err error) {
	if c.conn != nil {
		err = c.conn.Close()
	}
	if c.udpConn != nil {
		err = c.udpConn.Close()
	}
	return
}

// Dial opens a CONNECT tunnel to addr through the proxy server.
func (c *Socks5Client) Dial(ctx context.Context, addr string) (net.Conn, error) {
	_, err := c.handshake(ctx, addr, socks5.CmdConnect)
	if err != nil {
		return nil, err
	}
	tcw := newTcpConnWrapper(stream.New(c.conn), addr)
	c.conn = tcw
	return tcw, nil
}

// DialUDP sets up a UDP association and returns a connection that
// frames every datagram with the relay header.
func (c *Socks5Client) DialUDP(ctx context.Context, addr string) (net.Conn, error) {
	bindAddr, err := c.handshake(ctx, addr, socks5.CmdUDPAssociate)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, err
	}
	ucw, err := newUdpConnWrapper(conn, bindAddr, addr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.udpConn = ucw
	return ucw, nil
}

func (c *Socks5Client) handshake(ctx context.Context, target string, cmd socks5.Command) (string, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return "", err
	}
	c.conn = conn
	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl)
	} else if c.timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.timeout))
	}
	defer conn.SetDeadline(time.Time{})

	if err = c.negotiate(conn); err != nil {
		_ = conn.Close()
		return "", err
	}
	if err = c.authenticate(conn); err != nil {
		_ = conn.Close()
		return "", err
	}
	bindAddr, err := c.request(conn, target, cmd)
	if err != nil {
		_ = conn.Close()
		return "", err
	}

	logger.Logger.Debug("socks5 handshake",
		logx.String("server", c.Addr),
		logx.String("target", target),
		logx.String("cmd", cmd.String()),
		logx.String("bind", bindAddr),
	)
	return bindAddr, nil
}

func (c *Socks5Client) negotiate(conn net.Conn) error {
	methods := defaultSupportMethods
	if c.authMethod == socks5.MethodNoAuth {
		methods = methods[:1]
	}
	if err := socks5.WriteMessage(conn, socks5.NewMethodRequest(methods...)); err != nil {
		return err
	}
	resp, err := socks5.ReadMethodResponse(conn)
	if err != nil {
		return err
	}
	switch resp.Method {
	case socks5.MethodNoAuth, socks5.MethodUserPass:
		c.authMethod = resp.Method
		return nil
	}
	return fmt.Errorf("%w: server selected %s", socks5.ErrAuthFailure, resp.Method)
}

func (c *Socks5Client) authenticate(conn net.Conn) error {
	if c.authMethod != socks5.MethodUserPass {
		return nil
	}
	password, _ := c.authInfo.Password()
	req, err := socks5.NewUserPassRequest(c.authInfo.Username(), password)
	if err != nil {
		return err
	}
	if err := socks5.WriteMessage(conn, req); err != nil {
		return err
	}
	resp, err := socks5.ReadUserPassResponse(conn)
	if err != nil {
		return err
	}
	if !resp.Success() {
		return socks5.ErrAuthFailure
	}
	return nil
}

func (c *Socks5Client) request(conn net.Conn, target string, cmd socks5.Command) (string, error) {
	dstAddr, err := socks5.ParseAddrString(target)
	if err != nil {
		return "", err
	}
	if err := socks5.WriteMessage(conn, socks5.Request{Cmd: cmd, Addr: dstAddr}); err != nil {
		return "", err
	}
	resp, err := socks5.ReadResponse(conn)
	if err != nil {
		return "", err
	}
	if resp.Reply != socks5.ReplySucceeded {
		return "", fmt.Errorf("%w: %s", socks5.ErrRequestFailure, resp.Reply)
	}
	return resp.Addr.String(), nil
}
