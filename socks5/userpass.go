package socks5

import "io"

// UserPassRequest is the username/password sub-negotiation request sent
// after the server selects MethodUserPass.
//
//	+----+------+----------+------+----------+
//	|VER | ULEN |  UNAME   | PLEN |  PASSWD  |
//	+----+------+----------+------+----------+
//	| 1  |  1   | 1 to 255 |  1   | 1 to 255 |
//	+----+------+----------+------+----------+
type UserPassRequest struct {
	Username string
	Password string
}

// NewUserPassRequest rejects credentials whose length does not fit in
// the single length byte.
func NewUserPassRequest(username, password string) (UserPassRequest, error) {
	if len(username) > 255 || len(password) > 255 {
		return UserPassRequest{}, ErrUserPassTooLong
	}
	return UserPassRequest{Username: username, Password: password}, nil
}

func ReadUserPassRequest(r io.Reader) (UserPassRequest, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return UserPassRequest{}, err
	}
	if hdr[0] != UserPassVersion {
		return UserPassRequest{}, ErrVersion1Invalid
	}
	buf := make([]byte, int(hdr[1])+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return UserPassRequest{}, err
	}
	username := string(buf[:hdr[1]])
	plen := buf[hdr[1]]
	pbuf := make([]byte, plen)
	if _, err := io.ReadFull(r, pbuf); err != nil {
		return UserPassRequest{}, err
	}
	return UserPassRequest{Username: username, Password: string(pbuf)}, nil
}

func (u UserPassRequest) AppendTo(b []byte) []byte {
	b = append(b, UserPassVersion, byte(len(u.Username)))
	b = append(b, u.Username...)
	b = append(b, byte(len(u.Password)))
	return append(b, u.Password...)
}

func (u UserPassRequest) Length() int {
	return 3 + len(u.Username) + len(u.Password)
}

// UserPassResponse reports the sub-negotiation outcome: AuthSucceeded or
// any nonzero failure status. A failure is a valid protocol value, not a
// decode error; retrying or closing is decided by the caller.
//
//	+----+--------+
//	|VER | STATUS |
//	+----+--------+
//	| 1  |   1    |
//	+----+--------+
type UserPassResponse struct {
	Status byte
}

func ReadUserPassResponse(r io.Reader) (UserPassResponse, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return UserPassResponse{}, err
	}
	if buf[0] != UserPassVersion {
		return UserPassResponse{}, ErrVersion1Invalid
	}
	return UserPassResponse{Status: buf[1]}, nil
}

func (u UserPassResponse) Success() bool { return u.Status == AuthSucceeded }

func (u UserPassResponse) AppendTo(b []byte) []byte {
	return append(b, UserPassVersion, u.Status)
}

func (u UserPassResponse) Length() int { return 2 }
