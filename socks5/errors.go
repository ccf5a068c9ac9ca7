package socks5

import "errors"

var (
	ErrVersion5Invalid  = errors.New("socks version not 0x05")
	ErrVersion1Invalid  = errors.New("socks userpass version not 0x01")
	ErrReservedInvalid  = errors.New("socks reserved byte not 0x00")
	ErrUnsupportedCmd   = errors.New("socks unsupported request cmd")
	ErrUnsupportedAType = errors.New("socks unsupported address type")
	ErrDomainTooLong    = errors.New("socks domain name longer than 255 bytes")
	ErrUserPassTooLong  = errors.New("socks username or password longer than 255 bytes")
	ErrShortPacket      = errors.New("socks udp packet too short")
	ErrAuthFailure      = errors.New("socks authentication failure")
	ErrRequestFailure   = errors.New("socks request failure")
)
