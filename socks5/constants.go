package socks5

const (
	// Version is the SOCKS protocol version byte carried by every frame
	// except the username/password sub-negotiation.
	Version = 0x05
	// UserPassVersion is the version byte of the username/password
	// sub-negotiation (RFC 1929).
	UserPassVersion = 0x01
)

// Method is an authentication method identifier advertised during the
// handshake.
type Method byte

const (
	MethodNoAuth       Method = 0x00
	MethodGSSAPI       Method = 0x01
	MethodUserPass     Method = 0x02
	MethodNoAcceptable Method = 0xFF
)

func (m Method) String() string {
	switch m {
	case MethodNoAuth:
		return "no-auth"
	case MethodGSSAPI:
		return "gssapi"
	case MethodUserPass:
		return "username-password"
	case MethodNoAcceptable:
		return "no-acceptable-method"
	}
	return "unknown"
}

// Command selects the request mode. Exactly one command per request frame.
type Command byte

const (
	CmdConnect Command = iota + 1
	CmdBind
	CmdUDPAssociate
)

func (c Command) String() string {
	switch c {
	case CmdConnect:
		return "connect"
	case CmdBind:
		return "bind"
	case CmdUDPAssociate:
		return "udp-associate"
	}
	return "unknown"
}

// Reply is the outcome code carried by a response frame.
type Reply byte

const (
	ReplySucceeded Reply = iota
	ReplyGeneralFailure
	ReplyNotAllowed
	ReplyNetworkUnreachable
	ReplyHostUnreachable
	ReplyConnectionRefused
	ReplyTTLExpired
	ReplyCommandNotSupported
	ReplyAddressTypeNotSupported
)

func (r Reply) String() string {
	switch r {
	case ReplySucceeded:
		return "succeeded"
	case ReplyGeneralFailure:
		return "general socks server failure"
	case ReplyNotAllowed:
		return "connection not allowed by ruleset"
	case ReplyNetworkUnreachable:
		return "network unreachable"
	case ReplyHostUnreachable:
		return "host unreachable"
	case ReplyConnectionRefused:
		return "connection refused"
	case ReplyTTLExpired:
		return "ttl expired"
	case ReplyCommandNotSupported:
		return "command not supported"
	case ReplyAddressTypeNotSupported:
		return "address type not supported"
	}
	return "unassigned"
}

// username/password sub-negotiation status
const (
	AuthSucceeded byte = 0x00
	AuthFailed    byte = 0x01
)
