//go:build unix

package proxyproto

import (
	"io"
	"net"

	"golang.org/x/sys/unix"
)

// ParseTCP reads one preamble straight off a TCP socket: a single
// MSG_PEEK recv for the 16-byte prefix, then a single exact-length read
// for the full frame. At most two syscalls and one heap allocation per
// connection. On ErrInvalidSignature nothing has been consumed from the
// socket.
func ParseTCP(conn *net.TCPConn) (Header, error) {
	var hdr [headerLen]byte
	n, err := peek(conn, hdr[:])
	if err != nil {
		return Header{}, err
	}
	if n < headerLen {
		return Header{}, ErrInvalidSignature
	}
	h, plen, err := parsePrefix(hdr[:])
	if err != nil {
		return Header{}, err
	}
	frame := make([]byte, headerLen+plen)
	if _, err := io.ReadFull(conn, frame); err != nil {
		return Header{}, err
	}
	return parsePayload(h, frame[headerLen:])
}

func peek(conn *net.TCPConn, b []byte) (int, error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return 0, err
	}
	var n int
	var rerr error
	err = rc.Read(func(fd uintptr) bool {
		n, _, rerr = unix.Recvfrom(int(fd), b, unix.MSG_PEEK)
		// keep waiting for readability instead of spinning
		return rerr != unix.EAGAIN && rerr != unix.EWOULDBLOCK
	})
	if err != nil {
		return 0, err
	}
	return n, rerr
}
