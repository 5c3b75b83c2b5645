package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RouterConfig collects the handlers and middleware the router mounts.
type RouterConfig struct {
	Auth       *AuthHandler
	Schedules  *ScheduleHandler
	Staff      *StaffHandler
	Phonebook  *PhonebookHandler
	Messages   *MessageHandler
	Calls      *CallHandler
	Settings   *SettingsHandler
	Notes      *NoteHandler
	Metrics    http.Handler
	Middleware []mux.MiddlewareFunc
	Session    mux.MiddlewareFunc
}

// NewRouter mounts every endpoint. Registration, health, and metrics are
// public; everything else sits behind the session middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.Use(cfg.Middleware...)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		payload := fmt.Sprintf(`{"status":"ok","time":%q}`, time.Now().UTC().Format(time.RFC3339))
		_, _ = w.Write([]byte(payload))
	}).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	if cfg.Auth != nil {
		router.HandleFunc("/register", cfg.Auth.Register).Methods(http.MethodPost)
	}

	authed := router.NewRoute().Subrouter()
	if cfg.Session != nil {
		authed.Use(cfg.Session)
	}

	if cfg.Auth != nil {
		authed.HandleFunc("/session", cfg.Auth.Session).Methods(http.MethodGet)
		authed.HandleFunc("/session", cfg.Auth.Logout).Methods(http.MethodDelete)
	}

	if cfg.Schedules != nil {
		authed.HandleFunc("/schedules/profile", cfg.Schedules.GetProfile).Methods(http.MethodGet)
		authed.HandleFunc("/schedules/profile", cfg.Schedules.LinkProfile).Methods(http.MethodPost)
		authed.HandleFunc("/schedules/profile", cfg.Schedules.UnlinkProfile).Methods(http.MethodDelete)
		authed.HandleFunc("/schedules/on-call", cfg.Schedules.OnCall).Methods(http.MethodGet)
		authed.HandleFunc("/schedules", cfg.Schedules.List).Methods(http.MethodGet)
		authed.HandleFunc("/schedules", cfg.Schedules.Create).Methods(http.MethodPost)
		authed.HandleFunc("/schedules/{id}", cfg.Schedules.Update).Methods(http.MethodPut)
		authed.HandleFunc("/schedules/{id}", cfg.Schedules.Delete).Methods(http.MethodDelete)
	}

	if cfg.Staff != nil {
		authed.HandleFunc("/staff", cfg.Staff.List).Methods(http.MethodGet)
		authed.HandleFunc("/staff", cfg.Staff.Create).Methods(http.MethodPost)
		authed.HandleFunc("/staff/{phoneNumber}", cfg.Staff.SetActive).Methods(http.MethodPut)
		authed.HandleFunc("/staff/{phoneNumber}", cfg.Staff.Delete).Methods(http.MethodDelete)
	}

	if cfg.Phonebook != nil {
		authed.HandleFunc("/phonebook", cfg.Phonebook.List).Methods(http.MethodGet)
		authed.HandleFunc("/phonebook", cfg.Phonebook.Create).Methods(http.MethodPost)
		authed.HandleFunc("/phonebook/{id}", cfg.Phonebook.Update).Methods(http.MethodPut)
		authed.HandleFunc("/phonebook/{id}", cfg.Phonebook.Delete).Methods(http.MethodDelete)
	}

	if cfg.Messages != nil {
		authed.HandleFunc("/messages", cfg.Messages.List).Methods(http.MethodGet)
		authed.HandleFunc("/messages", cfg.Messages.Send).Methods(http.MethodPost)
		authed.HandleFunc("/messages/alert", cfg.Messages.Alert).Methods(http.MethodPost)
		authed.HandleFunc("/messages/{sid}", cfg.Messages.Get).Methods(http.MethodGet)
		authed.HandleFunc("/messages/{sid}/media", cfg.Messages.Media).Methods(http.MethodGet)
	}

	if cfg.Calls != nil {
		authed.HandleFunc("/calls", cfg.Calls.List).Methods(http.MethodGet)
		authed.HandleFunc("/calls/{sid}", cfg.Calls.Get).Methods(http.MethodGet)
	}

	if cfg.Settings != nil {
		authed.HandleFunc("/config", cfg.Settings.Values).Methods(http.MethodGet)
		authed.HandleFunc("/config", cfg.Settings.SetValue).Methods(http.MethodPut)
		authed.HandleFunc("/phone-numbers", cfg.Settings.NumberOptions).Methods(http.MethodGet)
	}

	if cfg.Notes != nil {
		authed.HandleFunc("/conversation-notes", cfg.Notes.List).Methods(http.MethodGet)
		authed.HandleFunc("/conversation-notes/one", cfg.Notes.Get).Methods(http.MethodGet)
		authed.HandleFunc("/conversation-notes", cfg.Notes.Save).Methods(http.MethodPost)
	}

	return router
}
