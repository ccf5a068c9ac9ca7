package socks5

import "io"

// UDPHeader frames one relayed datagram.
//
//	+----+------+------+----------+----------+----------+
//	|RSV | FRAG | ATYP | DST.ADDR | DST.PORT |   DATA   |
//	+----+------+------+----------+----------+----------+
//	| 2  |  1   |  1   | Variable |    2     | Variable |
//	+----+------+------+----------+----------+----------+
//
// Payload is a view into the datagram buffer handed to ParseUDPHeader,
// not a copy; the buffer must outlive the header. Frag is exposed as
// decoded, fragments are never reassembled here.
type UDPHeader struct {
	Frag    byte
	Addr    Addr
	Payload []byte
}

// ParseUDPHeader decodes the relay header from the front of one received
// datagram. Everything after the address field is payload.
func ParseUDPHeader(pkt []byte) (UDPHeader, error) {
	if len(pkt) < 4 {
		return UDPHeader{}, ErrShortPacket
	}
	if pkt[0] != 0x00 || pkt[1] != 0x00 {
		return UDPHeader{}, ErrReservedInvalid
	}
	addr, n, err := ParseAddr(pkt[3:])
	if err != nil {
		if err == io.ErrShortBuffer {
			err = ErrShortPacket
		}
		return UDPHeader{}, err
	}
	return UDPHeader{
		Frag:    pkt[2],
		Addr:    addr,
		Payload: pkt[3+n:],
	}, nil
}

func (h UDPHeader) AppendTo(b []byte) []byte {
	b = append(b, 0x00, 0x00, h.Frag)
	b = h.Addr.AppendTo(b)
	return append(b, h.Payload...)
}

func (h UDPHeader) Length() int { return 3 + h.Addr.Length() + len(h.Payload) }
