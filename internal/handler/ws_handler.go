package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Raj72620/meet-relay/internal/config"
	"github.com/Raj72620/meet-relay/internal/domain"
	"github.com/Raj72620/meet-relay/internal/hub"
	"github.com/Raj72620/meet-relay/internal/service"
	"github.com/Raj72620/meet-relay/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// WSHandler upgrades connections and routes every inbound frame through
// one dispatch switch into the session service.
type WSHandler struct {
	hub     *hub.Hub
	service service.SessionService
	wsCfg   config.WebSocketConfig
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(h *hub.Hub, svc service.SessionService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

// HandleWebSocket handles WebSocket upgrade and message routing.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	l := log.Ctx(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	connID := uuid.New().String()
	client := hub.NewClient(connID, h.hub, conn, h.wsCfg)

	client.SetDisconnectHandler(func(c *hub.Client) {
		ctx := context.Background()
		if err := h.service.HandleDisconnect(ctx, c.ID); err != nil {
			log.L().Error().Err(err).Str(log.FieldConnID, c.ID).Msg("disconnect handler error")
		}
	})

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	l := log.L()

	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid message format"))
		return
	}

	ctx := context.Background()

	var err error
	switch base.Type {
	case domain.MsgTypeJoin:
		var msg domain.JoinMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid join message"))
			return
		}
		err = h.service.HandleJoin(ctx, client.ID, msg.RoomCode, msg.DisplayName)

	case domain.MsgTypeSignal:
		var msg domain.SignalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid signal message"))
			return
		}
		err = h.service.HandleSignal(ctx, client.ID, msg.TargetID, msg.Payload)

	case domain.MsgTypeChat:
		var msg domain.ChatMessageIn
		if err := json.Unmarshal(message, &msg); err != nil {
			h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid chat message"))
			return
		}
		err = h.service.HandleChat(ctx, client.ID, msg.DisplayName, msg.Body)

	case domain.MsgTypeHandRaise:
		var msg domain.HandRaiseMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid hand_raise message"))
			return
		}
		err = h.service.HandleHandRaise(ctx, client.ID, msg.RoomCode, msg.Raised)

	case domain.MsgTypeReaction:
		var msg domain.ReactionMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid reaction message"))
			return
		}
		err = h.service.HandleReaction(ctx, client.ID, msg.RoomCode, msg.Emoji)

	case domain.MsgTypeKick:
		var msg domain.KickMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid kick message"))
			return
		}
		err = h.service.HandleKick(ctx, client.ID, msg.TargetID, msg.RoomCode)

	case domain.MsgTypeEndMeeting:
		var msg domain.EndMeetingMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid end_meeting message"))
			return
		}
		ack := func(err error) {
			result := &domain.EndMeetingResult{Type: domain.MsgTypeEndMeetingResult, Success: err == nil}
			if err != nil {
				result.Error = err.Error()
			}
			h.hub.Send(client.ID, result)
		}
		err = h.service.HandleEndMeeting(ctx, client.ID, msg.RoomCode, msg.MeetingCode, ack)

	case domain.MsgTypePing:
		h.hub.Send(client.ID, map[string]string{"type": domain.MsgTypePong})

	default:
		h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeBadRequest, "Unknown message type"))
	}

	// One failed event never takes the connection down; the sender gets
	// an error frame and the session continues.
	if err != nil {
		l.Error().Err(err).Str(log.FieldConnID, client.ID).Str("event", base.Type).Msg("event handling failed")
		h.hub.Send(client.ID, domain.NewErrorMessage(domain.ErrCodeInternalError, "Failed to process "+base.Type))
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleWebSocket)
}
