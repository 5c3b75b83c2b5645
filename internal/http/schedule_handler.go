package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/oncall-dispatch/internal/application"
	"github.com/example/oncall-dispatch/internal/oncall"
	"github.com/example/oncall-dispatch/internal/persistence"
)

type scheduleService interface {
	GetProfile(ctx context.Context, ownerID string) (persistence.ScheduleProfile, error)
	LinkProfile(ctx context.Context, ownerID, phoneNumber string) (persistence.ScheduleProfile, error)
	UnlinkProfile(ctx context.Context, ownerID string) error
	CreateEntry(ctx context.Context, ownerID string, input application.EntryInput) (persistence.ScheduleEntry, error)
	UpdateEntry(ctx context.Context, ownerID, entryID string, patch application.EntryPatch) (persistence.ScheduleEntry, error)
	DeleteEntry(ctx context.Context, ownerID, entryID string) error
	ListEntries(ctx context.Context) ([]persistence.ScheduleEntry, error)
	OnCallForDate(ctx context.Context, date time.Time) ([]persistence.ScheduleEntry, error)
}

// ScheduleHandler serves the schedule and profile endpoints.
type ScheduleHandler struct {
	service   scheduleService
	responder responder
	now       func() time.Time
}

// NewScheduleHandler wires the schedule endpoints.
func NewScheduleHandler(service scheduleService, logger *slog.Logger, now func() time.Time) *ScheduleHandler {
	if now == nil {
		now = time.Now
	}
	return &ScheduleHandler{service: service, responder: newResponder(logger), now: now}
}

type profileResponse struct {
	OwnerID     string    `json:"ownerId"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type entryResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	PhoneNumber string    `json:"phoneNumber"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	DayOfWeek   *int      `json:"dayOfWeek"`
	Recurring   bool      `json:"recurring"`
	Always      bool      `json:"always"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProfileResponse(profile persistence.ScheduleProfile) profileResponse {
	return profileResponse{
		OwnerID:     profile.OwnerID,
		PhoneNumber: profile.PhoneNumber,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}

func toEntryResponse(entry persistence.ScheduleEntry) entryResponse {
	return entryResponse{
		ID:          entry.ID,
		OwnerID:     entry.OwnerID,
		PhoneNumber: entry.PhoneNumber,
		StartTime:   entry.StartTime,
		EndTime:     entry.EndTime,
		DayOfWeek:   entry.DayOfWeek,
		Recurring:   entry.Recurring,
		Always:      entry.Always,
		Date:        entry.Date,
		CreatedAt:   entry.CreatedAt,
	}
}

func toEntryResponses(entries []persistence.ScheduleEntry) []entryResponse {
	responses := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toEntryResponse(entry))
	}
	return responses
}

// GetProfile returns the caller's linked profile. An unlinked caller gets an
// empty association so the dashboard can render the link form.
func (h *ScheduleHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserIDFromContext(r.Context())
	profile, err := h.service.GetProfile(r.Context(), uid)
	if errors.Is(err, application.ErrNotFound) {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, profileResponse{OwnerID: uid})
		return
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toProfileResponse(profile))
}

// LinkProfile associates the caller with a staff phone number.
func (h *ScheduleHandler) LinkProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	uid, _ := UserIDFromContext(r.Context())
	profile, err := h.service.LinkProfile(r.Context(), uid, req.PhoneNumber)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toProfileResponse(profile))
}

// UnlinkProfile removes the caller's profile and schedule entries.
func (h *ScheduleHandler) UnlinkProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserIDFromContext(r.Context())
	if err := h.service.UnlinkProfile(r.Context(), uid); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List returns every schedule entry.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEntryResponses(entries))
}

// OnCall returns the entries active on the requested date, defaulting to
// today.
func (h *ScheduleHandler) OnCall(w http.ResponseWriter, r *http.Request) {
	date := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(oncall.DateLayout, raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		date = parsed
	}

	entries, err := h.service.OnCallForDate(r.Context(), date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEntryResponses(entries))
}

type entryRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Date      string `json:"date"`
	DayOfWeek *int   `json:"dayOfWeek"`
	Recurring bool   `json:"recurring"`
	Always    bool   `json:"always"`
}

// Create persists a new schedule entry for the caller.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	uid, _ := UserIDFromContext(r.Context())
	entry, err := h.service.CreateEntry(r.Context(), uid, application.EntryInput{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      req.Date,
		DayOfWeek: req.DayOfWeek,
		Recurring: req.Recurring,
		Always:    req.Always,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEntryResponse(entry))
}

type entryPatchRequest struct {
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Date      *string `json:"date"`
	DayOfWeek *int    `json:"dayOfWeek"`
	Recurring *bool   `json:"recurring"`
}

// Update applies a partial update to an entry the caller owns.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["id"]
	if entryID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingPathID)
		return
	}

	var req entryPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	uid, _ := UserIDFromContext(r.Context())
	entry, err := h.service.UpdateEntry(r.Context(), uid, entryID, application.EntryPatch{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      req.Date,
		DayOfWeek: req.DayOfWeek,
		Recurring: req.Recurring,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEntryResponse(entry))
}

// Delete removes an entry the caller owns.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["id"]
	if entryID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingPathID)
		return
	}

	uid, _ := UserIDFromContext(r.Context())
	if err := h.service.DeleteEntry(r.Context(), uid, entryID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
