package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/oncall-dispatch/internal/twilio"
)

type callService interface {
	List(ctx context.Context, direction, counterpart string) ([]twilio.Call, error)
	Get(ctx context.Context, sid string) (twilio.Call, error)
}

// CallHandler serves call history endpoints.
type CallHandler struct {
	service   callService
	responder responder
}

// NewCallHandler wires the call endpoints.
func NewCallHandler(service callService, logger *slog.Logger) *CallHandler {
	return &CallHandler{service: service, responder: newResponder(logger)}
}

type callResponse struct {
	SID       string `json:"sid"`
	From      string `json:"from"`
	To        string `json:"to"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	StartTime string `json:"startTime"`
	Duration  string `json:"duration"`
}

func toCallResponse(call twilio.Call) callResponse {
	return callResponse{
		SID:       call.SID,
		From:      call.From,
		To:        call.To,
		Status:    call.Status,
		Direction: call.Direction,
		StartTime: call.StartTime,
		Duration:  call.Duration,
	}
}

// List returns call history, filtered by direction and counterpart.
func (h *CallHandler) List(w http.ResponseWriter, r *http.Request) {
	direction := r.URL.Query().Get("direction")
	counterpart := r.URL.Query().Get("number")

	calls, err := h.service.List(r.Context(), direction, counterpart)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	responses := make([]callResponse, 0, len(calls))
	for _, call := range calls {
		responses = append(responses, toCallResponse(call))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, responses)
}

// Get returns one call by SID.
func (h *CallHandler) Get(w http.ResponseWriter, r *http.Request) {
	call, err := h.service.Get(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCallResponse(call))
}
