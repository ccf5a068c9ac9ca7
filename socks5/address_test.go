package socks5

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadAddrIPv4(t *testing.T) {
	raw := []byte{0x01, 0x7F, 0x00, 0x00, 0x01, 0x1F, 0x90}
	addr, err := ReadAddr(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, AddrIPv4, addr.Type)
	assert.Equal(t, "127.0.0.1:8080", addr.String())
	assert.Equal(t, len(raw), addr.Length())
	assert.Equal(t, raw, addr.AppendTo(nil))
}

func TestReadAddrDomain(t *testing.T) {
	raw := []byte{0x03, 0x03, 'f', 'o', 'o', 0x00, 0x50}
	addr, err := ReadAddr(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.Equal(t, AddrDomain, addr.Type)
	assert.Equal(t, "foo", addr.Domain)
	assert.Equal(t, uint16(80), addr.Port)
	assert.Equal(t, raw, addr.AppendTo(nil))
}

func TestAddrRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		addr Addr
	}{
		{"ipv4", Addr{Type: AddrIPv4, IP: net.IPv4(192, 168, 1, 1).To4(), Port: 1080}},
		{"ipv6", Addr{Type: AddrIPv6, IP: net.ParseIP("2001:db8::1").To16(), Port: 443}},
		{"domain", Addr{Type: AddrDomain, Domain: "example.com", Port: 65535}},
		{"domain-max", Addr{Type: AddrDomain, Domain: strings.Repeat("a", 255), Port: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.addr.AppendTo(nil)
			assert.Equal(t, tt.addr.Length(), len(raw))

			decoded, err := ReadAddr(bytes.NewReader(raw))
			assert.NoError(t, err)
			assert.Equal(t, tt.addr, decoded)

			decoded2, n, err := ParseAddr(raw)
			assert.NoError(t, err)
			assert.Equal(t, len(raw), n)
			assert.Equal(t, tt.addr, decoded2)
		})
	}
}

func TestReadAddrStopsAtFrameBoundary(t *testing.T) {
	raw := append([]byte{0x01, 10, 0, 0, 1, 0x00, 0x50}, "next message"...)
	r := bytes.NewReader(raw)
	_, err := ReadAddr(r)
	assert.NoError(t, err)
	assert.Equal(t, len("next message"), r.Len())
}

func TestParseAddrZeroCopy(t *testing.T) {
	raw := []byte{0x01, 10, 20, 30, 40, 0x1F, 0x90}
	addr, _, err := ParseAddr(raw)
	assert.NoError(t, err)
	// the IP references the input buffer, not a copy
	assert.Same(t, &raw[1], &addr.IP[0])
}

func TestAddrFromHostPort(t *testing.T) {
	addr, err := AddrFromHostPort("10.0.0.1", 80)
	assert.NoError(t, err)
	assert.Equal(t, AddrIPv4, addr.Type)

	addr, err = AddrFromHostPort("::1", 80)
	assert.NoError(t, err)
	assert.Equal(t, AddrIPv6, addr.Type)

	addr, err = AddrFromHostPort(strings.Repeat("a", 255), 80)
	assert.NoError(t, err)
	assert.Equal(t, AddrDomain, addr.Type)

	_, err = AddrFromHostPort(strings.Repeat("a", 256), 80)
	assert.ErrorIs(t, err, ErrDomainTooLong)
}

func TestReadAddrUnsupportedType(t *testing.T) {
	_, err := ReadAddr(bytes.NewReader([]byte{0x02, 0, 0, 0, 0, 0, 0}))
	assert.ErrorIs(t, err, ErrUnsupportedAType)

	_, _, err = ParseAddr([]byte{0x05, 0, 0})
	assert.ErrorIs(t, err, ErrUnsupportedAType)
}
