package socks5

import "io"

// Request is the client command frame sent after negotiation.
//
//	+----+-----+-------+------+----------+----------+
//	|VER | CMD |  RSV  | ATYP | DST.ADDR | DST.PORT |
//	+----+-----+-------+------+----------+----------+
//	| 1  |  1  | X'00' |  1   | Variable |    2     |
//	+----+-----+-------+------+----------+----------+
type Request struct {
	Cmd  Command
	Addr Addr
}

// ReadRequest decodes a request from r. An unknown command byte is a
// decode error (ErrUnsupportedCmd); translating it into a wire reply
// before closing is up to the caller.
func ReadRequest(r io.Reader) (Request, error) {
	var hdr [3]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Request{}, err
	}
	if hdr[0] != Version {
		return Request{}, ErrVersion5Invalid
	}
	if hdr[2] != 0x00 {
		return Request{}, ErrReservedInvalid
	}
	cmd := Command(hdr[1])
	switch cmd {
	case CmdConnect, CmdBind, CmdUDPAssociate:
	default:
		return Request{}, ErrUnsupportedCmd
	}
	addr, err := ReadAddr(r)
	if err != nil {
		return Request{}, err
	}
	return Request{Cmd: cmd, Addr: addr}, nil
}

func (req Request) AppendTo(b []byte) []byte {
	b = append(b, Version, byte(req.Cmd), 0x00)
	return req.Addr.AppendTo(b)
}

func (req Request) Length() int { return 3 + req.Addr.Length() }

// Response is the server reply to a Request. The bound address is
// meaningful only on ReplySucceeded but is present regardless, keeping
// the frame layout fixed.
//
//	+----+-----+-------+------+----------+----------+
//	|VER | REP |  RSV  | ATYP | BND.ADDR | BND.PORT |
//	+----+-----+-------+------+----------+----------+
//	| 1  |  1  | X'00' |  1   | Variable |    2     |
//	+----+-----+-------+------+----------+----------+
type Response struct {
	Reply Reply
	Addr  Addr
}

func ReadResponse(r io.Reader) (Response, error) {
	var hdr [3]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Response{}, err
	}
	if hdr[0] != Version {
		return Response{}, ErrVersion5Invalid
	}
	if hdr[2] != 0x00 {
		return Response{}, ErrReservedInvalid
	}
	addr, err := ReadAddr(r)
	if err != nil {
		return Response{}, err
	}
	return Response{Reply: Reply(hdr[1]), Addr: addr}, nil
}

func (resp Response) AppendTo(b []byte) []byte {
	b = append(b, Version, byte(resp.Reply), 0x00)
	return resp.Addr.AppendTo(b)
}

func (resp Response) Length() int { return 3 + resp.Addr.Length() }
