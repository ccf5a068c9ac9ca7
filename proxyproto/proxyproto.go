// Package proxyproto parses the PROXY protocol version 2 binary
// preamble that load balancers prepend to a TCP stream to convey the
// original client and destination addresses.
//
// The parser peeks the fixed 16-byte prefix first; when the signature
// does not match, no bytes have been consumed and the caller may handle
// the stream as ordinary traffic.
package proxyproto

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/netip"
)

// the literal sequence \r\n\r\n\x00\r\nQUIT\n
var Signature = []byte{0x0D, 0x0A, 0x0D, 0x0A, 0x00, 0x0D, 0x0A, 0x51, 0x55, 0x49, 0x54, 0x0A}

const (
	signatureLen = 12
	headerLen    = 16
)

// Command is the low nibble of the version/command byte.
type Command byte

const (
	// Local marks a connection established by the proxy itself, e.g. a
	// health check. It carries no address information.
	Local Command = 0x00
	// Proxy marks a relayed connection whose original addresses follow.
	Proxy Command = 0x01
)

func (c Command) String() string {
	if c == Local {
		return "local"
	}
	return "proxy"
}

// AddressFamily is the high nibble of the family/protocol byte.
type AddressFamily byte

const (
	FamilyUnspec AddressFamily = 0x0
	FamilyInet   AddressFamily = 0x1
	FamilyInet6  AddressFamily = 0x2
	FamilyUnix   AddressFamily = 0x3
)

func (f AddressFamily) String() string {
	switch f {
	case FamilyInet:
		return "inet"
	case FamilyInet6:
		return "inet6"
	case FamilyUnix:
		return "unix"
	}
	return "unspec"
}

// Protocol is the low nibble of the family/protocol byte.
type Protocol byte

const (
	ProtoUnspec   Protocol = 0x0
	ProtoStream   Protocol = 0x1
	ProtoDatagram Protocol = 0x2
)

// Addresses carries the original connection endpoints. Source and
// destination always share one address family.
type Addresses struct {
	Source      netip.AddrPort
	Destination netip.AddrPort
}

// Header is one decoded PROXY v2 preamble. Addresses is nil for the
// Local command and for address families the parser does not interpret.
type Header struct {
	Command   Command
	Family    AddressFamily
	Protocol  Protocol
	Addresses *Addresses
}

// ErrInvalidSignature reports that the stream does not start with the
// PROXY v2 signature. No bytes have been consumed, so the connection can
// be re-read from the start and handled as plain traffic.
var ErrInvalidSignature = errors.New("proxyproto: invalid signature")

// UnsupportedVersionError reports a version nibble other than 2.
type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("proxyproto: unsupported version %d, expected 2", e.Version)
}

// InvalidCommandError reports a command nibble other than LOCAL/PROXY.
type InvalidCommandError struct {
	Command byte
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("proxyproto: invalid command %#x", e.Command)
}

// AddressLengthMismatchError reports a declared payload length that is
// too small for the declared address family.
type AddressLengthMismatchError struct {
	Family   AddressFamily
	Got      int
	Expected int
}

func (e *AddressLengthMismatchError) Error() string {
	return fmt.Sprintf("proxyproto: address length mismatch for %s: got %d, expected %d",
		e.Family, e.Got, e.Expected)
}

// Parse reads one PROXY v2 preamble from br, whose buffer must hold at
// least 16 bytes.
//
// The prefix is inspected with Peek, growing one byte at a time: as
// soon as the available bytes diverge from the signature the parse
// fails with ErrInvalidSignature without waiting for a full 16-byte
// prefix, so a non-prefixed client that sent a short first frame and is
// now awaiting a reply does not deadlock the fallback. On
// ErrInvalidSignature the reader still holds every original byte. On
// success the whole frame (prefix plus declared payload) is consumed
// with a single ReadFull into one buffer, and addresses are sliced out
// of that buffer.
func Parse(br *bufio.Reader) (Header, error) {
	want := 1
	for {
		b, err := br.Peek(want)
		if len(b) < want {
			if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
				return Header{}, err
			}
			// stream ended before a full prefix
			return Header{}, ErrInvalidSignature
		}
		// inspect everything already buffered, not just the asked-for byte
		if n := br.Buffered(); n > len(b) {
			if n > headerLen {
				n = headerLen
			}
			b, _ = br.Peek(n)
		}
		cmp := len(b)
		if cmp > signatureLen {
			cmp = signatureLen
		}
		if !bytes.Equal(b[:cmp], Signature[:cmp]) {
			return Header{}, ErrInvalidSignature
		}
		if len(b) < headerLen {
			want = len(b) + 1
			continue
		}

		h, plen, err := parsePrefix(b[:headerLen])
		if err != nil {
			return Header{}, err
		}
		frame := make([]byte, headerLen+plen)
		if _, err := io.ReadFull(br, frame); err != nil {
			return Header{}, err
		}
		return parsePayload(h, frame[headerLen:])
	}
}

// parsePrefix validates the fixed 16-byte prefix and returns the partly
// filled header and the declared payload length.
func parsePrefix(hdr []byte) (Header, int, error) {
	if !bytes.Equal(hdr[:signatureLen], Signature) {
		return Header{}, 0, ErrInvalidSignature
	}
	verCmd := hdr[signatureLen]
	if verCmd>>4 != 0x2 {
		return Header{}, 0, &UnsupportedVersionError{Version: verCmd >> 4}
	}
	cmd := Command(verCmd & 0x0F)
	if cmd != Local && cmd != Proxy {
		return Header{}, 0, &InvalidCommandError{Command: byte(cmd)}
	}
	famProto := hdr[signatureLen+1]
	plen := int(binary.BigEndian.Uint16(hdr[signatureLen+2:]))
	return Header{
		Command:  cmd,
		Family:   AddressFamily(famProto >> 4),
		Protocol: Protocol(famProto & 0x0F),
	}, plen, nil
}

// parsePayload fills in the addresses from the consumed frame payload.
// Payload bytes for a Local command or an uninterpreted family stay
// opaque: consumed, never exposed.
func parsePayload(h Header, payload []byte) (Header, error) {
	if h.Command != Proxy {
		return h, nil
	}
	switch h.Family {
	case FamilyInet:
		// src(4) dst(4) sport(2) dport(2)
		if len(payload) < 12 {
			return Header{}, &AddressLengthMismatchError{Family: FamilyInet, Got: len(payload), Expected: 12}
		}
		src, _ := netip.AddrFromSlice(payload[0:4])
		dst, _ := netip.AddrFromSlice(payload[4:8])
		h.Addresses = &Addresses{
			Source:      netip.AddrPortFrom(src, binary.BigEndian.Uint16(payload[8:10])),
			Destination: netip.AddrPortFrom(dst, binary.BigEndian.Uint16(payload[10:12])),
		}
	case FamilyInet6:
		// src(16) dst(16) sport(2) dport(2)
		if len(payload) < 36 {
			return Header{}, &AddressLengthMismatchError{Family: FamilyInet6, Got: len(payload), Expected: 36}
		}
		src, _ := netip.AddrFromSlice(payload[0:16])
		dst, _ := netip.AddrFromSlice(payload[16:32])
		h.Addresses = &Addresses{
			Source:      netip.AddrPortFrom(src, binary.BigEndian.Uint16(payload[32:34])),
			Destination: netip.AddrPortFrom(dst, binary.BigEndian.Uint16(payload[34:36])),
		}
	default:
		// unspec/unix: raw opaque payload, no addresses
	}
	return h, nil
}
