// Package client is the participant side of the quiz: it renders server
// messages onto a Display and forwards typed answers.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"netquiz/internal/config"
	"netquiz/internal/domain"
	"netquiz/internal/protocol"
)

// Display is whatever the participant looks at. Implementations must be
// safe to call from the network goroutine.
type Display interface {
	// Show appends text verbatim, newlines included.
	Show(text string)
	DisableInput()
	Fatal(title, text string)
}

type Client struct {
	conn    io.ReadWriteCloser
	dec     *protocol.Decoder
	display Display

	mu  sync.Mutex
	enc *protocol.Encoder
}

// New wraps an established connection.
func New(conn io.ReadWriteCloser, display Display) *Client {
	return &Client{
		conn:    conn,
		dec:     protocol.NewDecoder(conn),
		enc:     protocol.NewEncoder(conn),
		display: display,
	}
}

// Dial connects to ep. A failure is shown on display, raises the fatal
// dialog and wraps domain.ErrConnectFailed.
func Dial(ctx context.Context, ep config.Endpoint, display Display) (*Client, error) {
	d := net.Dialer{Timeout: 10 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", ep.Addr())
	if err != nil {
		display.Show(fmt.Sprintf("Unable to connect to server at %s:%d.\n", ep.Host, ep.Port))
		display.DisableInput()
		display.Fatal("Connection Error", fmt.Sprintf("Unable to connect to server at %s.", ep.Addr()))
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConnectFailed, ep.Addr(), err)
	}
	return New(conn, display), nil
}

// ShowConfigNotice tells the participant that defaults are in use.
func ShowConfigNotice(display Display, ep config.Endpoint) {
	display.Show(fmt.Sprintf("Configuration file '%s' not found or unreadable.\n", config.ServerInfoFile))
	display.Show(fmt.Sprintf("Using default server IP: %s and port: %d\n", ep.Host, ep.Port))
}

// Run renders server messages until the connection ends. The end of stream
// after SCORE is a normal finish; anything else before it returns
// domain.ErrConnectionLost.
func (c *Client) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	finished := false
	for {
		m, err := c.dec.Decode()
		if err != nil {
			if finished {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.display.Show("Connection lost.\n")
			c.display.DisableInput()
			c.display.Fatal("Connection Error", "Connection to the server has been lost.")
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: server closed the connection", domain.ErrConnectionLost)
			}
			return fmt.Errorf("%w: %w", domain.ErrConnectionLost, err)
		}

		c.display.Show(Render(m))
		if m.Type == protocol.TypeScore {
			finished = true
			c.display.DisableInput()
		}
	}
}

// Submit sends one answer line. Blank input is ignored. A write failure is
// reported on the display and returned; the session carries on.
func (c *Client) Submit(answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	c.display.Show("Your answer: " + answer + "\n")

	c.mu.Lock()
	err := c.enc.EncodeLine(answer)
	c.mu.Unlock()
	if err != nil {
		c.display.Show("Error sending answer.\n")
		return fmt.Errorf("%w: %w", domain.ErrSendFailed, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Render formats m the way it appears on screen.
func Render(m protocol.Message) string {
	switch m.Type {
	case protocol.TypeWelcome, protocol.TypeFeedback:
		return m.Lines[0] + "\n\n"
	case protocol.TypeQuestion:
		return m.Lines[0] + " " + m.Lines[1] + "\n"
	default:
		return strings.Join(m.Lines, " ") + "\n"
	}
}
