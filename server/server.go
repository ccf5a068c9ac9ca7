// Package server accepts TCP connections and drives them through the
// wire codecs: an optional PROXY v2 preamble, then SOCKS5 negotiation
// and request handling, with an HTTP CONNECT fallback for clients that
// speak plain HTTP to the same port.
package server

import (
	"context"
	"errors"
	"net"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/josexy/logx"
	"github.com/josexy/sockswire/auth"
	"github.com/josexy/sockswire/bufferpool"
	"github.com/josexy/sockswire/util/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrServerStarted = errors.New("server: already started")
	ErrServerClosed  = errors.New("server: closed")

	stackTraceBufferPool = bufferpool.NewBufferPool(4096)
)

const (
	defaultDialTimeout = 10 * time.Second
	defaultIOTimeout   = 5 * time.Minute
)

type Config struct {
	Addr string
	// Users holds credentials; an empty store selects no-auth.
	Users *auth.Store
	// EnableUDP allows the UDP ASSOCIATE command.
	EnableUDP bool
	// ProxyProtocol expects a PROXY v2 preamble on accepted
	// connections, falling back to plain handling when the signature
	// does not match.
	ProxyProtocol bool
	// HTTPFallback serves HTTP CONNECT clients on the same port.
	HTTPFallback bool
	DialTimeout  time.Duration
	IOTimeout    time.Duration
}

type Server struct {
	cfg     Config
	ln      net.Listener
	running atomic.Bool
}

func New(cfg Config) *Server {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = defaultIOTimeout
	}
	return &Server{cfg: cfg}
}

// Addr returns the bound listener address, valid after ListenAndServe
// has started accepting.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.running.Load() {
		return ErrServerStarted
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)

	logger.Logger.Info("server listening",
		logx.String("addr", ln.Addr().String()),
		logx.Bool("udp", s.cfg.EnableUDP),
		logx.Bool("proxy_protocol", s.cfg.ProxyProtocol),
		logx.Bool("http_fallback", s.cfg.HTTPFallback),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return s.Close()
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if !s.running.Load() {
					return nil
				}
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				return err
			}
			go s.serveConn(conn)
		}
	})
	return g.Wait()
}

func (s *Server) Close() error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerClosed
	}
	return s.ln.Close()
}

func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		if err := recover(); err != nil {
			buf := stackTraceBufferPool.Get()
			n := runtime.Stack(*buf, false)
			logger.Logger.Error("connection recovery",
				logx.Any("error", err),
				logx.String("stack", string((*buf)[:n])),
			)
			stackTraceBufferPool.Put(buf)
		}
	}()
	s.handle(conn)
}
