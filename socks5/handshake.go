package socks5

import "io"

// MethodRequest is the client side of method negotiation.
//
//	+----+----------+----------+
//	|VER | NMETHODS | METHODS  |
//	+----+----------+----------+
//	| 1  |    1     | 1 to 255 |
//	+----+----------+----------+
//
// Duplicates are permitted and order is irrelevant; the server picks one
// member or answers MethodNoAcceptable.
type MethodRequest struct {
	Methods []Method
}

func NewMethodRequest(methods ...Method) MethodRequest {
	return MethodRequest{Methods: methods}
}

// ReadMethodRequest decodes a method negotiation request from r.
func ReadMethodRequest(r io.Reader) (MethodRequest, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return MethodRequest{}, err
	}
	if hdr[0] != Version {
		return MethodRequest{}, ErrVersion5Invalid
	}
	buf := make([]byte, hdr[1])
	if _, err := io.ReadFull(r, buf); err != nil {
		return MethodRequest{}, err
	}
	methods := make([]Method, len(buf))
	for i, b := range buf {
		methods[i] = Method(b)
	}
	return MethodRequest{Methods: methods}, nil
}

// Contains reports whether the client advertised method.
func (m MethodRequest) Contains(method Method) bool {
	for _, v := range m.Methods {
		if v == method {
			return true
		}
	}
	return false
}

func (m MethodRequest) AppendTo(b []byte) []byte {
	b = append(b, Version, byte(len(m.Methods)))
	for _, v := range m.Methods {
		b = append(b, byte(v))
	}
	return b
}

func (m MethodRequest) Length() int { return 2 + len(m.Methods) }

// MethodResponse carries the method the server selected, or
// MethodNoAcceptable when none of the offered methods is usable. The
// codec only represents that value; closing the connection afterwards is
// the caller's business.
//
//	+----+--------+
//	|VER | METHOD |
//	+----+--------+
//	| 1  |   1    |
//	+----+--------+
type MethodResponse struct {
	Method Method
}

func ReadMethodResponse(r io.Reader) (MethodResponse, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return MethodResponse{}, err
	}
	if buf[0] != Version {
		return MethodResponse{}, ErrVersion5Invalid
	}
	return MethodResponse{Method: Method(buf[1])}, nil
}

func (m MethodResponse) AppendTo(b []byte) []byte {
	return append(b, Version, byte(m.Method))
}

func (m MethodResponse) Length() int { return 2 }
