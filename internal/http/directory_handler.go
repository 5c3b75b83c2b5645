package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/oncall-dispatch/internal/application"
	"github.com/example/oncall-dispatch/internal/persistence"
)

type staffService interface {
	CreateStaff(ctx context.Context, phoneNumber string) (persistence.StaffMember, error)
	ListStaff(ctx context.Context) ([]persistence.StaffMember, error)
	SetStaffActive(ctx context.Context, phoneNumber string, active bool) error
	DeleteStaff(ctx context.Context, phoneNumber string) error
}

// StaffHandler serves the staff directory endpoints.
type StaffHandler struct {
	service   staffService
	responder responder
}

// NewStaffHandler wires the staff directory endpoints.
func NewStaffHandler(service staffService, logger *slog.Logger) *StaffHandler {
	return &StaffHandler{service: service, responder: newResponder(logger)}
}

type staffResponse struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toStaffResponse(member persistence.StaffMember) staffResponse {
	return staffResponse{
		ID:          member.ID,
		PhoneNumber: member.PhoneNumber,
		Active:      member.Active,
		CreatedAt:   member.CreatedAt,
	}
}

// List returns the full directory.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListStaff(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	responses := make([]staffResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, toStaffResponse(member))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, responses)
}

// Create adds a phone number to the directory.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	member, err := h.service.CreateStaff(r.Context(), req.PhoneNumber)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toStaffResponse(member))
}

// SetActive toggles a member's alert eligibility.
func (h *StaffHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	phoneNumber := mux.Vars(r)["phoneNumber"]

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.SetStaffActive(r.Context(), phoneNumber, req.Active); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Delete removes a member from the directory.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	phoneNumber := mux.Vars(r)["phoneNumber"]
	if err := h.service.DeleteStaff(r.Context(), phoneNumber); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type phonebookService interface {
	CreateEntry(ctx context.Context, input application.PhonebookInput) (persistence.PhonebookEntry, error)
	UpdateEntry(ctx context.Context, id string, input application.PhonebookInput) (persistence.PhonebookEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context) ([]persistence.PhonebookEntry, error)
}

// PhonebookHandler serves the shared contact list endpoints.
type PhonebookHandler struct {
	service   phonebookService
	responder responder
}

// NewPhonebookHandler wires the phonebook endpoints.
func NewPhonebookHandler(service phonebookService, logger *slog.Logger) *PhonebookHandler {
	return &PhonebookHandler{service: service, responder: newResponder(logger)}
}

type phonebookResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PhoneNumber string     `json:"phoneNumber"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type phonebookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PhoneNumber string `json:"phoneNumber"`
}

func toPhonebookResponse(entry persistence.PhonebookEntry) phonebookResponse {
	return phonebookResponse{
		ID:          entry.ID,
		Name:        entry.Name,
		Description: entry.Description,
		PhoneNumber: entry.PhoneNumber,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

// List returns all contacts.
func (h *PhonebookHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	responses := make([]phonebookResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toPhonebookResponse(entry))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, responses)
}

// Create stores a new contact.
func (h *PhonebookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req phonebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), application.PhonebookInput{
		Name:        req.Name,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toPhonebookResponse(entry))
}

// Update replaces a contact's fields.
func (h *PhonebookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req phonebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.UpdateEntry(r.Context(), id, application.PhonebookInput{
		Name:        req.Name,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPhonebookResponse(entry))
}

// Delete removes a contact.
func (h *PhonebookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
