package voice

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessionservice "github.com/luvv-ai/backend/internal/service/session"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// WebSocketHandler drives voice turns over a persistent connection: binary
// clips in, transcript/reply/audio events out.
type WebSocketHandler struct {
	dialogue DialogueService
	sessions *sessionservice.Store
	tempDir  string
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket voice handler.
func NewWebSocketHandler(dialogue DialogueService, sessions *sessionservice.Store, tempDir string) *WebSocketHandler {
	return &WebSocketHandler{
		dialogue: dialogue,
		sessions: sessions,
		tempDir:  tempDir,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/voice/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// AudioMessage carries one recorded clip; AudioData travels base64-encoded.
type AudioMessage struct {
	AudioData []byte `json:"audioData"`
	Format    string `json:"format"`
}

// TextMessage carries a typed user turn.
type TextMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer raw.Close()

	conn := &wsConn{conn: raw}
	log.Printf("[websocket] new voice connection for session=%s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.sendEvent(conn, sessionID, "connected", map[string]any{"persona": sess.PersonaID})

	for {
		var msg inboundMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		raw.SetReadDeadline(time.Now().Add(wsReadTimeout))

		h.handleMessage(ctx, conn, sess, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *wsConn, sess *sessionservice.Session, msg *inboundMessage) {
	switch msg.Type {
	case "audio":
		var audio AudioMessage
		if err := json.Unmarshal(msg.Data, &audio); err != nil {
			h.sendError(conn, sess.ID, "invalid audio message")
			return
		}
		h.processAudio(ctx, conn, sess, &audio)
	case "text":
		var text TextMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			h.sendError(conn, sess.ID, "invalid text message")
			return
		}
		reply, err := h.dialogue.HandleTurn(ctx, sess, text.Text)
		if err != nil {
			h.sendError(conn, sess.ID, err.Error())
			return
		}
		h.sendEvent(conn, sess.ID, "reply", map[string]any{"text": reply})
	default:
		h.sendError(conn, sess.ID, "unknown message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) processAudio(ctx context.Context, conn *wsConn, sess *sessionservice.Session, audio *AudioMessage) {
	format := audio.Format
	if format == "" {
		format = "wav"
	}

	tmp, err := os.CreateTemp(h.tempDir, "voice-ws-*."+format)
	if err != nil {
		h.sendError(conn, sess.ID, "failed to buffer audio")
		return
	}
	clipPath := tmp.Name()
	defer os.Remove(clipPath)

	if _, err := tmp.Write(audio.AudioData); err != nil {
		tmp.Close()
		h.sendError(conn, sess.ID, "failed to buffer audio")
		return
	}
	if err := tmp.Close(); err != nil {
		h.sendError(conn, sess.ID, "failed to buffer audio")
		return
	}

	result, err := h.dialogue.HandleVoiceTurn(ctx, sess, clipPath)
	if err != nil {
		h.sendError(conn, sess.ID, err.Error())
		return
	}

	h.sendEvent(conn, sess.ID, "transcript", map[string]any{"text": result.Transcript})
	h.sendEvent(conn, sess.ID, "reply", map[string]any{"text": result.ReplyText})
	if result.HasAudio() {
		h.sendEvent(conn, sess.ID, "audio", map[string]any{
			"audio":  result.Audio,
			"format": result.Format,
		})
	} else if result.AudioError != "" {
		h.sendError(conn, sess.ID, result.AudioError)
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) sendEvent(conn *wsConn, sessionID, eventType string, data interface{}) {
	msg := outgoingMessage{
		Type:      eventType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.writeJSON(msg); err != nil {
		log.Printf("[websocket] failed to send %s event: %v", eventType, err)
	}
}

func (h *WebSocketHandler) sendError(conn *wsConn, sessionID, message string) {
	h.sendEvent(conn, sessionID, "error", map[string]any{"message": message})
}
