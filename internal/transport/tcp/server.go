package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"netquiz/internal/app"
	"netquiz/internal/protocol"
)

// DefaultWorkers bounds concurrent sessions when no limit is configured.
const DefaultWorkers = 20

// Player runs one session over an established connection.
type Player interface {
	Play(ctx context.Context, conn app.Conn, remoteAddr string) (app.Result, error)
}

// Server accepts TCP connections and hands each one to a Player on a
// bounded pool. When the pool is full Accept is not called until a slot
// frees up.
type Server struct {
	player      Player
	workers     int
	readTimeout time.Duration
	logger      *slog.Logger
}

type Option func(*Server)

func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithReadTimeout drops a session whose participant stays silent for d.
// Zero disables the timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func NewServer(player Player, opts ...Option) *Server {
	s := &Server{
		player:  player,
		workers: DefaultWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe binds addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("tcp: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is canceled or ln is closed, then waits for
// in-flight sessions. Cancellation also interrupts those sessions.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.logger.InfoContext(ctx, "tcp: listening", "addr", ln.Addr().String(), "workers", s.workers)

	var g errgroup.Group
	g.SetLimit(s.workers)

	var backoff time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				break
			}
			backoff = nextBackoff(backoff)
			s.logger.WarnContext(ctx, "tcp: accept failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		g.Go(func() error {
			s.handle(ctx, nc)
			return nil
		})
	}

	_ = g.Wait()
	s.logger.InfoContext(ctx, "tcp: stopped")
	return nil
}

func (s *Server) handle(ctx context.Context, nc net.Conn) {
	defer nc.Close()

	// unblock pending reads and writes on shutdown
	stop := context.AfterFunc(ctx, func() { _ = nc.SetDeadline(time.Now()) })
	defer stop()

	remote := nc.RemoteAddr().String()
	s.logger.DebugContext(ctx, "tcp: accepted", "remote", remote)

	res, err := s.player.Play(ctx, newConn(ctx, nc, s.readTimeout), remote)
	s.logger.DebugContext(ctx, "tcp: closed", "remote", remote, "completed", res.Completed, "error", err)
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

// conn adapts a net.Conn to app.Conn using the line protocol.
type conn struct {
	ctx         context.Context
	nc          net.Conn
	enc         *protocol.Encoder
	dec         *protocol.Decoder
	readTimeout time.Duration
}

func newConn(ctx context.Context, nc net.Conn, readTimeout time.Duration) *conn {
	return &conn{
		ctx:         ctx,
		nc:          nc,
		enc:         protocol.NewEncoder(nc),
		dec:         protocol.NewDecoder(nc),
		readTimeout: readTimeout,
	}
}

func (c *conn) Send(m protocol.Message) error {
	return c.enc.Encode(m)
}

func (c *conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		if err := c.nc.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return "", err
		}
		// the deadline above may have replaced the shutdown deadline
		if err := c.ctx.Err(); err != nil {
			return "", err
		}
	}
	return c.dec.ReadLine()
}
