package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// PhonebookRepository captures the persistence interactions needed by the service.
type PhonebookRepository interface {
	CreatePhonebookEntry(ctx context.Context, entry persistence.PhonebookEntry) error
	GetPhonebookEntry(ctx context.Context, id string) (persistence.PhonebookEntry, error)
	UpdatePhonebookEntry(ctx context.Context, entry persistence.PhonebookEntry) error
	DeletePhonebookEntry(ctx context.Context, id string) error
	ListPhonebookEntries(ctx context.Context) ([]persistence.PhonebookEntry, error)
}

// PhonebookInput carries the caller-supplied fields for a phonebook contact.
type PhonebookInput struct {
	Name        string
	Description string
	PhoneNumber string
}

// PhonebookService manages the shared contact list shown on the dashboard.
type PhonebookService struct {
	phonebook   PhonebookRepository
	idGenerator func() string
	now         func() time.Time
}

// NewPhonebookService wires dependencies for phonebook operations.
func NewPhonebookService(phonebook PhonebookRepository, idGenerator func() string, now func() time.Time) *PhonebookService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PhonebookService{phonebook: phonebook, idGenerator: idGenerator, now: now}
}

// CreateEntry validates and stores a new contact.
func (s *PhonebookService) CreateEntry(ctx context.Context, input PhonebookInput) (persistence.PhonebookEntry, error) {
	if vErr := validatePhonebookInput(input); vErr != nil {
		return persistence.PhonebookEntry{}, vErr
	}

	entry := persistence.PhonebookEntry{
		ID:          s.idGenerator(),
		Name:        input.Name,
		Description: input.Description,
		PhoneNumber: input.PhoneNumber,
		CreatedAt:   s.now(),
	}
	if err := s.phonebook.CreatePhonebookEntry(ctx, entry); err != nil {
		return persistence.PhonebookEntry{}, fmt.Errorf("create phonebook entry: %w", err)
	}
	return entry, nil
}

// UpdateEntry replaces a contact's fields.
func (s *PhonebookService) UpdateEntry(ctx context.Context, id string, input PhonebookInput) (persistence.PhonebookEntry, error) {
	if vErr := validatePhonebookInput(input); vErr != nil {
		return persistence.PhonebookEntry{}, vErr
	}

	entry, err := s.phonebook.GetPhonebookEntry(ctx, id)
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.PhonebookEntry{}, ErrNotFound
	}
	if err != nil {
		return persistence.PhonebookEntry{}, fmt.Errorf("get phonebook entry: %w", err)
	}

	updatedAt := s.now()
	entry.Name = input.Name
	entry.Description = input.Description
	entry.PhoneNumber = input.PhoneNumber
	entry.UpdatedAt = &updatedAt

	if err := s.phonebook.UpdatePhonebookEntry(ctx, entry); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.PhonebookEntry{}, ErrNotFound
		}
		return persistence.PhonebookEntry{}, fmt.Errorf("update phonebook entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes a contact.
func (s *PhonebookService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.phonebook.DeletePhonebookEntry(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete phonebook entry: %w", err)
	}
	return nil
}

// ListEntries returns all contacts.
func (s *PhonebookService) ListEntries(ctx context.Context) ([]persistence.PhonebookEntry, error) {
	entries, err := s.phonebook.ListPhonebookEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list phonebook entries: %w", err)
	}
	return entries, nil
}

func validatePhonebookInput(input PhonebookInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.PhoneNumber == "" {
		vErr.add("phoneNumber", "phone number is required")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
