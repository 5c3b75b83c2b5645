package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/oncall-dispatch/internal/persistence"
	"github.com/example/oncall-dispatch/internal/twilio"
)

type settingsService interface {
	Values(ctx context.Context) (map[string]string, error)
	SetValue(ctx context.Context, key, value string) error
	NumberOptions(ctx context.Context) ([]twilio.IncomingPhoneNumber, error)
}

// SettingsHandler serves the runtime configuration endpoints.
type SettingsHandler struct {
	service   settingsService
	responder responder
}

// NewSettingsHandler wires the configuration endpoints.
func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, responder: newResponder(logger)}
}

// Values returns the configured inbound/outbound numbers.
func (h *SettingsHandler) Values(w http.ResponseWriter, r *http.Request) {
	values, err := h.service.Values(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, values)
}

// SetValue stores one configuration value.
func (h *SettingsHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.SetValue(r.Context(), req.Key, req.Value); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// NumberOptions returns the provider numbers available for configuration next
// to the currently selected values, so the settings page renders from one
// request.
func (h *SettingsHandler) NumberOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.NumberOptions(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	values, err := h.service.Values(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"values":  values,
		"options": options,
	})
}

type noteService interface {
	GetNote(ctx context.Context, ownerID, phoneNumber string) (persistence.ConversationNote, error)
	ListNotes(ctx context.Context, ownerID string, phoneNumbers []string) ([]persistence.ConversationNote, error)
	SaveNote(ctx context.Context, ownerID, phoneNumber string, text *string, done *bool) (persistence.ConversationNote, error)
}

// NoteHandler serves per-user conversation note endpoints.
type NoteHandler struct {
	service   noteService
	responder responder
}

// NewNoteHandler wires the conversation note endpoints.
func NewNoteHandler(service noteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{service: service, responder: newResponder(logger)}
}

type noteResponse struct {
	PhoneNumber string    `json:"phoneNumber"`
	Notes       string    `json:"notes"`
	Done        bool      `json:"done"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toNoteResponse(note persistence.ConversationNote) noteResponse {
	return noteResponse{
		PhoneNumber: note.PhoneNumber,
		Notes:       note.Notes,
		Done:        note.Done,
		UpdatedAt:   note.UpdatedAt,
	}
}

// Get returns the caller's note for one conversation.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	phoneNumber := r.URL.Query().Get("number")
	if phoneNumber == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingQueryArg)
		return
	}

	uid, _ := UserIDFromContext(r.Context())
	note, err := h.service.GetNote(r.Context(), uid, phoneNumber)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toNoteResponse(note))
}

// List returns the caller's notes for the requested conversations.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	numbers := r.URL.Query()["number"]
	uid, _ := UserIDFromContext(r.Context())

	notes, err := h.service.ListNotes(r.Context(), uid, numbers)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	responses := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, toNoteResponse(note))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, responses)
}

// Save creates or replaces the caller's note for one conversation.
func (h *NoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string  `json:"phoneNumber"`
		Notes       *string `json:"notes"`
		Done        *bool   `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	uid, _ := UserIDFromContext(r.Context())
	note, err := h.service.SaveNote(r.Context(), uid, req.PhoneNumber, req.Notes, req.Done)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toNoteResponse(note))
}
