package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"solar_simulator/internal/model"
	"solar_simulator/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and routes messages to the session.
type Handler struct {
	hub  *Hub
	sess *session.Session
}

func NewHandler(hub *Hub, sess *session.Session) *Handler {
	return &Handler{hub: hub, sess: sess}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := newClient(h.hub, conn)
	h.hub.Register(client)
	go client.writePump()

	// Send current params, then the latest run if there is one
	h.reply(client, TypeParamsState, ParamsStatePayload{Params: h.sess.Params()})
	if run, err := h.sess.CurrentRun(); err == nil {
		h.reply(client, TypeRunSummary, SummaryFromRun(run))
	}

	// Read messages from client
	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("Invalid message: %v", err)
		h.replyError(c, "invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeParamsUpdate:
		var p ParamsUpdatePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.replyError(c, "invalid params:update payload: %v", err)
			return
		}
		// The session notifies the bridge, which broadcasts params and run.
		_, issues, err := h.sess.UpdateParams(p)
		if len(issues) > 0 {
			h.reply(c, TypeParamsIssues, ParamsIssuesPayload{Issues: issues})
		}
		if err != nil {
			h.replyError(c, "recompute failed: %v", err)
		}

	case TypeSimRecompute:
		if _, err := h.sess.Recompute(); err != nil {
			h.replyError(c, "recompute failed: %v", err)
		}

	case TypeDayGet:
		var p DayGetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.replyError(c, "invalid day:get payload: %v", err)
			return
		}
		day, err := model.ParseDate(p.Date)
		if err != nil {
			h.replyError(c, "%v", err)
			return
		}
		steps, summary, ok := h.sess.Store().Day(day)
		if !ok {
			h.replyError(c, "no steps for %s", p.Date)
			return
		}
		h.reply(c, TypeDayData, DayDataPayload{Date: day.Date(), Steps: steps, Summary: summary})

	case TypeFrameGet:
		var p FrameGetPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.replyError(c, "invalid frame:get payload: %v", err)
			return
		}
		ts, err := model.ParseTimestamp(p.Timestamp)
		if err != nil {
			h.replyError(c, "%v", err)
			return
		}
		frame, ok := h.sess.Store().FrameAt(ts)
		if !ok {
			h.replyError(c, "no step at or before %s", p.Timestamp)
			return
		}
		h.reply(c, TypeFrame, frame)

	default:
		log.Printf("Unknown message type: %s", env.Type)
		h.replyError(c, "unknown message type %q", env.Type)
	}
}

func (h *Handler) reply(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		log.Printf("Error creating %s message: %v", msgType, err)
		return
	}
	if !h.hub.SendTo(c, msg) {
		log.Printf("client buffer full, dropping %s", msgType)
	}
}

func (h *Handler) replyError(c *Client, format string, args ...any) {
	h.reply(c, TypeError, ErrorPayload{Message: fmt.Sprintf(format, args...)})
}
