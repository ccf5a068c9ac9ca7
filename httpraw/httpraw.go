// Package httpraw reads CONNECT-style HTTP/1.1 request lines and
// exposes pre-built response byte sequences that can be written without
// any formatting work. It is a thin wrapper over net/http's request
// parser; there is no novel framing here.
package httpraw

import (
	"bufio"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Pre-built status lines plus headers for common proxy outcomes. Write
// them as-is, one Write call each.
var (
	StatusOK                    = []byte("HTTP/1.1 200 OK\r\n\r\n")
	StatusConnectionEstablished = []byte("HTTP/1.1 200 Connection established\r\n\r\n")
	StatusCreated               = []byte("HTTP/1.1 201 Created\r\n\r\n")
	StatusNoContent             = []byte("HTTP/1.1 204 No Content\r\n\r\n")
	StatusBadRequest            = []byte("HTTP/1.1 400 Bad Request\r\n\r\n")
	StatusUnauthorized          = []byte("HTTP/1.1 401 Unauthorized\r\n\r\nUnauthorized\r\n")
	StatusForbidden             = []byte("HTTP/1.1 403 Forbidden\r\n\r\n")
	StatusNotFound              = []byte("HTTP/1.1 404 Not Found\r\n\r\n")
	StatusProxyAuthRequired     = []byte("HTTP/1.1 407 Proxy Authentication Required\r\nProxy-Authenticate: Basic realm=\"Proxy-Login\"\r\n\r\n")
	StatusInternalServerError   = []byte("HTTP/1.1 500 Internal Server Error\r\n\r\n")
	StatusBadGateway            = []byte("HTTP/1.1 502 Bad Gateway\r\n\r\n")
	StatusServiceUnavailable    = []byte("HTTP/1.1 503 Service Unavailable\r\n\r\n")
)

var ErrNotConnect = errors.New("httpraw: not a CONNECT request")

// ReadConnectRequest reads one request from br and requires it to be a
// CONNECT. The returned request's Host field holds the tunnel target.
func ReadConnectRequest(br *bufio.Reader) (*http.Request, error) {
	req, err := http.ReadRequest(br)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(req.Method, http.MethodConnect) {
		return nil, ErrNotConnect
	}
	return req, nil
}

// ReadResponseStatus reads one response head from br and returns its
// status code. The body is not consumed; for the tunnel-establishment
// replies this package deals in there is none.
func ReadResponseStatus(br *bufio.Reader) (int, error) {
	resp, err := http.ReadResponse(br, nil)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// BasicProxyAuth decodes the Proxy-Authorization header of req, if any.
// ok is false for a missing header, a non-Basic scheme or a malformed
// value.
func BasicProxyAuth(req *http.Request) (username, password string, ok bool) {
	auth := req.Header.Get("Proxy-Authorization")
	if auth == "" {
		return "", "", false
	}
	const prefix = "Basic "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(auth[len(prefix):])
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return
}
