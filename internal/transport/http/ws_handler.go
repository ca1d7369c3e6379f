package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"netquiz/internal/app"
	"netquiz/internal/protocol"
)

// Player runs one quiz session over an established connection.
type Player interface {
	Play(ctx context.Context, conn app.Conn, remoteAddr string) (app.Result, error)
}

// WSHandler serves quiz sessions over WebSocket. Server messages are JSON
// objects {"type": "...", "lines": [...]}; each text frame from the browser
// is one answer line.
type WSHandler struct {
	player   Player
	upgrader websocket.Upgrader
}

func NewWSHandler(player Player) *WSHandler {
	return &WSHandler{
		player: player,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and plays one session on it.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "ws: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	res, err := h.player.Play(ctx, &wsConn{conn: conn}, r.RemoteAddr)
	if err != nil {
		slog.DebugContext(ctx, "ws: session ended early", "remote", r.RemoteAddr, "error", err)
		return
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "quiz over")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	slog.DebugContext(ctx, "ws: session finished", "remote", r.RemoteAddr, "score", res.Score)
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Send(m protocol.Message) error {
	if _, err := protocol.Marshal(m); err != nil {
		return err
	}
	return c.conn.WriteJSON(m)
}

func (c *wsConn) ReadLine() (string, error) {
	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", io.EOF
			}
			return "", err
		}
		if typ != websocket.TextMessage {
			continue
		}
		line, _, _ := strings.Cut(string(data), "\n")
		return strings.TrimSuffix(line, "\r"), nil
	}
}
