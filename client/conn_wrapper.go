package client

import (
	"net"

	"github.com/josexy/sockswire/bufferpool"
	"github.com/josexy/sockswire/socks5"
)

type tcpConnWrapper struct {
	net.Conn
	remoteAddr net.Addr
}

func newTcpConnWrapper(conn net.Conn, target string) *tcpConnWrapper {
	remoteAddr, err := net.ResolveTCPAddr("tcp", target)
	if err != nil {
		// domain target, keep the proxy address
		return &tcpConnWrapper{Conn: conn, remoteAddr: conn.RemoteAddr()}
	}
	return &tcpConnWrapper{Conn: conn, remoteAddr: remoteAddr}
}

func (c *tcpConnWrapper) RemoteAddr() net.Addr { return c.remoteAddr }

// udpConnWrapper turns the associated PacketConn into a net.Conn whose
// Read/Write strip and add the relay header for one fixed target.
type udpConnWrapper struct {
	net.PacketConn
	relayAddr  *net.UDPAddr
	remoteAddr *net.UDPAddr
	targetAddr socks5.Addr
	buf        []byte
}

func newUdpConnWrapper(conn net.PacketConn, relayAddr, target string) (*udpConnWrapper, error) {
	raddr, err := net.ResolveUDPAddr("udp", relayAddr)
	if err != nil {
		return nil, err
	}
	remoteAddr, err := net.ResolveUDPAddr("udp", target)
	if err != nil {
		remoteAddr = nil
	}
	targetAddr, err := socks5.ParseAddrString(target)
	if err != nil {
		return nil, err
	}
	return &udpConnWrapper{
		PacketConn: conn,
		relayAddr:  raddr,
		remoteAddr: remoteAddr,
		targetAddr: targetAddr,
		buf:        make([]byte, bufferpool.MaxUdpBufferSize),
	}, nil
}

func (c *udpConnWrapper) RemoteAddr() net.Addr { return c.remoteAddr }

func (c *udpConnWrapper) Read(b []byte) (int, error) {
	n, _, err := c.ReadFrom(c.buf)
	if err != nil {
		return 0, err
	}
	hdr, err := socks5.ParseUDPHeader(c.buf[:n])
	if err != nil {
		return 0, err
	}
	return copy(b, hdr.Payload), nil
}

func (c *udpConnWrapper) Write(b []byte) (int, error) {
	hdr := socks5.UDPHeader{Addr: c.targetAddr, Payload: b}
	if _, err := c.WriteTo(hdr.AppendTo(c.buf[:0]), c.relayAddr); err != nil {
		return 0, err
	}
	return len(b), nil
}
