package socks5

import (
	"encoding/binary"
	"io"
	"net"
	"strconv"
)

// AddrType is the discriminant byte leading a SOCKS5 address.
type AddrType byte

const (
	AddrIPv4   AddrType = 0x01
	AddrDomain AddrType = 0x03
	AddrIPv6   AddrType = 0x04
)

// Addr is the SOCKS5 address format shared by requests, responses and
// the UDP relay header.
//
//	+------+----------+----------+
//	| ATYP | DST.ADDR | DST.PORT |
//	+------+----------+----------+
//	|  1   | Variable |    2     |
//	+------+----------+----------+
//
// Exactly one of IP or Domain is meaningful, selected by Type. An Addr
// decoded with ParseAddr keeps its IP as a view into the input buffer;
// the buffer must outlive the Addr.
type Addr struct {
	Type   AddrType
	IP     net.IP
	Domain string
	Port   uint16
}

// UnspecifiedAddr returns 0.0.0.0:0, the bound address a server reports
// when it has nothing meaningful to say.
func UnspecifiedAddr() Addr {
	return Addr{Type: AddrIPv4, IP: net.IPv4zero.To4()}
}

// AddrFromHostPort builds an Addr from a host (IP literal or domain
// name) and port. Domain names longer than 255 bytes cannot be carried
// by the single length byte and are rejected.
func AddrFromHostPort(host string, port uint16) (Addr, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return Addr{Type: AddrIPv4, IP: ip4, Port: port}, nil
		}
		return Addr{Type: AddrIPv6, IP: ip.To16(), Port: port}, nil
	}
	if len(host) > 255 {
		return Addr{}, ErrDomainTooLong
	}
	return Addr{Type: AddrDomain, Domain: host, Port: port}, nil
}

// ParseAddrString builds an Addr from a "host:port" string.
func ParseAddrString(addr string) (Addr, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Addr{}, err
	}
	portnum, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return Addr{}, err
	}
	return AddrFromHostPort(host, uint16(portnum))
}

// ReadAddr decodes one address from r, consuming exactly the bytes that
// belong to it and nothing beyond.
func ReadAddr(r io.Reader) (Addr, error) {
	atyp, err := readByte(r)
	if err != nil {
		return Addr{}, err
	}
	switch AddrType(atyp) {
	case AddrIPv4:
		buf := make([]byte, net.IPv4len+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Addr{}, err
		}
		return Addr{
			Type: AddrIPv4,
			IP:   net.IP(buf[:net.IPv4len]),
			Port: binary.BigEndian.Uint16(buf[net.IPv4len:]),
		}, nil
	case AddrIPv6:
		buf := make([]byte, net.IPv6len+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Addr{}, err
		}
		return Addr{
			Type: AddrIPv6,
			IP:   net.IP(buf[:net.IPv6len]),
			Port: binary.BigEndian.Uint16(buf[net.IPv6len:]),
		}, nil
	case AddrDomain:
		n, err := readByte(r)
		if err != nil {
			return Addr{}, err
		}
		buf := make([]byte, int(n)+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Addr{}, err
		}
		return Addr{
			Type:   AddrDomain,
			Domain: string(buf[:n]),
			Port:   binary.BigEndian.Uint16(buf[n:]),
		}, nil
	}
	return Addr{}, ErrUnsupportedAType
}

// ParseAddr decodes one address from the front of b without copying the
// address bytes, returning the Addr and the number of bytes it occupies.
func ParseAddr(b []byte) (Addr, int, error) {
	if len(b) < 1 {
		return Addr{}, 0, io.ErrShortBuffer
	}
	switch AddrType(b[0]) {
	case AddrIPv4:
		n := 1 + net.IPv4len + 2
		if len(b) < n {
			return Addr{}, 0, io.ErrShortBuffer
		}
		return Addr{
			Type: AddrIPv4,
			IP:   net.IP(b[1 : 1+net.IPv4len]),
			Port: binary.BigEndian.Uint16(b[1+net.IPv4len:]),
		}, n, nil
	case AddrIPv6:
		n := 1 + net.IPv6len + 2
		if len(b) < n {
			return Addr{}, 0, io.ErrShortBuffer
		}
		return Addr{
			Type: AddrIPv6,
			IP:   net.IP(b[1 : 1+net.IPv6len]),
			Port: binary.BigEndian.Uint16(b[1+net.IPv6len:]),
		}, n, nil
	case AddrDomain:
		if len(b) < 2 {
			return Addr{}, 0, io.ErrShortBuffer
		}
		n := 1 + 1 + int(b[1]) + 2
		if len(b) < n {
			return Addr{}, 0, io.ErrShortBuffer
		}
		return Addr{
			Type:   AddrDomain,
			Domain: string(b[2 : 2+int(b[1])]),
			Port:   binary.BigEndian.Uint16(b[n-2:]),
		}, n, nil
	}
	return Addr{}, 0, ErrUnsupportedAType
}

func (a Addr) AppendTo(b []byte) []byte {
	switch a.Type {
	case AddrIPv4:
		b = append(b, byte(AddrIPv4))
		b = append(b, a.IP.To4()...)
	case AddrIPv6:
		b = append(b, byte(AddrIPv6))
		b = append(b, a.IP.To16()...)
	case AddrDomain:
		b = append(b, byte(AddrDomain), byte(len(a.Domain)))
		b = append(b, a.Domain...)
	}
	return binary.BigEndian.AppendUint16(b, a.Port)
}

func (a Addr) Length() int {
	switch a.Type {
	case AddrIPv4:
		return 1 + net.IPv4len + 2
	case AddrIPv6:
		return 1 + net.IPv6len + 2
	}
	return 1 + 1 + len(a.Domain) + 2
}

func (a Addr) Host() string {
	if a.Type == AddrDomain {
		return a.Domain
	}
	return a.IP.String()
}

func (a Addr) String() string {
	return net.JoinHostPort(a.Host(), strconv.Itoa(int(a.Port)))
}
