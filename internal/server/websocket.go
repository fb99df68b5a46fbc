package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/submission"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next message or pong from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 16 * 1024
)

// client is one browser connection bound to its own form session
type client struct {
	server     *Server
	conn       *websocket.Conn
	session    *form.Session
	remoteAddr string

	ctx    context.Context
	cancel context.CancelFunc

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// handleWebSocket upgrades the request and runs a live form session until
// the browser disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	p, err := form.Lookup(chi.URLParam(r, "profile"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	sess, err := s.newSession(p)
	if err != nil {
		logging.Error("Failed to create session", zap.Error(err))
		_ = conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		server:     s,
		conn:       conn,
		session:    sess,
		remoteAddr: r.RemoteAddr,
		ctx:        ctx,
		cancel:     cancel,
	}

	s.wg.Add(1)
	s.track(c)
	defer func() {
		c.close()
		sess.Close()
		s.untrack(c)
		s.wg.Done()
	}()

	sess.OnTransition(c.onTransition)
	c.run()
}

// run reads client messages until the connection closes
func (c *client) run() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.pingLoop()

	c.send(ServerMessage{
		Type:      MsgSession,
		SessionID: c.session.ID(),
		Profile:   c.session.Profile().Name,
	})
	c.send(stateMessage(c.session.State().String()))

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("WebSocket closed unexpectedly",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		logging.LogWebSocketMessage(c.remoteAddr, "received", msgType, data)

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(errorMessage("malformed message"))
			continue
		}
		c.server.metrics.wsMessages.WithLabelValues("received", msg.Type).Inc()
		c.dispatch(msg)
	}
}

func (c *client) dispatch(msg ClientMessage) {
	profile := c.session.Profile().Name

	switch msg.Type {
	case MsgChange:
		text, err := c.session.Change(msg.Field, msg.Value)
		if err != nil {
			c.send(errorMessage(err.Error()))
			return
		}
		if text != "" {
			c.server.metrics.recordValidationFailure(profile, msg.Field)
		}
		c.send(fieldMessage(msg.Field, text))

	case MsgSubmit:
		err := c.session.Submit(c.ctx)
		var serr *form.SubmitError
		switch {
		case errors.As(err, &serr):
			c.server.recordRejection(profile, serr)
			if serr.Kind == form.ErrUnfilled && serr.Alert != "" && c.session.Profile().AlertOnUnfilled {
				c.send(ServerMessage{
					Type:       MsgAlert,
					Message:    serr.Alert,
					DurationMS: c.session.AlertDuration().Milliseconds(),
				})
				return
			}
			c.send(ServerMessage{Type: MsgErrors, Errors: c.session.Errors()})
		case err != nil:
			c.send(errorMessage(err.Error()))
		}

	case MsgDismiss:
		if err := c.session.Dismiss(); err != nil {
			c.send(errorMessage(err.Error()))
		}

	default:
		c.send(errorMessage("unknown message type: " + msg.Type))
	}
}

// onTransition forwards submission state changes to the browser
func (c *client) onTransition(t form.Transition) {
	profile := c.session.Profile().Name

	switch t.To {
	case submission.StateSucceeded:
		c.server.recordSuccess(profile, t.Snapshot)
		c.send(stateMessage(t.To.String()))
		c.send(ServerMessage{Type: MsgConfirmation, Title: t.Snapshot.Title, Rows: t.Snapshot.Rows})
	case submission.StateFailed:
		c.server.metrics.recordSubmission(profile, OutcomeFailed)
		c.send(stateMessage(t.To.String()))
		c.send(ServerMessage{Type: MsgFailure, Message: t.Notice.Message})
	default:
		if t.Event == submission.EventReject {
			return
		}
		c.send(stateMessage(t.To.String()))
	}
}

// send writes one JSON message. Safe for concurrent use: the resolution
// timer and the read loop both send.
func (c *client) send(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("Failed to encode message", zap.Error(err))
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logging.Debug("WebSocket write failed",
			zap.String("remote_addr", c.remoteAddr),
			zap.Error(err),
		)
		return
	}
	c.server.metrics.wsMessages.WithLabelValues("sent", msg.Type).Inc()
	logging.LogWebSocketMessage(c.remoteAddr, "sent", websocket.TextMessage, data)
}

func (c *client) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// close cancels the session context and closes the connection
func (c *client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = c.conn.Close()
	})
}
