package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/oncall-dispatch/internal/application"
	"github.com/example/oncall-dispatch/internal/twilio"
)

type messageService interface {
	List(ctx context.Context, direction, counterpart string) ([]application.Message, error)
	Get(ctx context.Context, sid string) (application.Message, error)
	Send(ctx context.Context, senderUID, to, body string) (application.Message, error)
	Media(ctx context.Context, sid string) ([]twilio.Media, error)
}

type notificationService interface {
	Alert(ctx context.Context, body string) (application.AlertResult, error)
}

// MessageHandler serves message history, sending, and alert fan-out.
type MessageHandler struct {
	service       messageService
	notifications notificationService
	responder     responder
}

// NewMessageHandler wires the message endpoints.
func NewMessageHandler(service messageService, notifications notificationService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{service: service, notifications: notifications, responder: newResponder(logger)}
}

type messageResponse struct {
	SID       string `json:"sid"`
	From      string `json:"from"`
	To        string `json:"to"`
	Body      string `json:"body"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	DateSent  string `json:"dateSent"`
	NumMedia  string `json:"numMedia"`
	SentBy    string `json:"sentBy,omitempty"`
}

func toMessageResponse(message application.Message) messageResponse {
	return messageResponse{
		SID:       message.SID,
		From:      message.From,
		To:        message.To,
		Body:      message.Body,
		Status:    message.Status,
		Direction: message.Direction,
		DateSent:  message.DateSent,
		NumMedia:  message.NumMedia,
		SentBy:    message.SentBy,
	}
}

// List returns message history, filtered by direction and counterpart.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	direction := r.URL.Query().Get("direction")
	counterpart := r.URL.Query().Get("number")

	messages, err := h.service.List(r.Context(), direction, counterpart)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	responses := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, toMessageResponse(message))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, responses)
}

// Get returns one message with its sender attribution.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	message, err := h.service.Get(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toMessageResponse(message))
}

// Send delivers an outbound SMS attributed to the caller.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To   string `json:"to"`
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	uid, _ := UserIDFromContext(r.Context())
	message, err := h.service.Send(r.Context(), uid, req.To, req.Body)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toMessageResponse(message))
}

// Media returns a message's attachments.
func (h *MessageHandler) Media(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.Media(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, media)
}

// Alert fans a message out to everyone on call today.
func (h *MessageHandler) Alert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.notifications.Alert(r.Context(), req.Body)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"recipients": result.Recipients,
		"sent":       result.Sent,
		"failed":     result.Failed,
	})
}
