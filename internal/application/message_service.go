package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/oncall-dispatch/internal/persistence"
	"github.com/example/oncall-dispatch/internal/twilio"
)

// History directions accepted by the message and call listings.
const (
	DirectionAll      = "all"
	DirectionReceived = "received"
	DirectionSent     = "sent"
	DirectionMade     = "made"
)

// MessagingProvider captures the provider interactions needed by the service.
type MessagingProvider interface {
	ListMessages(ctx context.Context, filter twilio.Filter) ([]twilio.Message, error)
	GetMessage(ctx context.Context, sid string) (twilio.Message, error)
	SendMessage(ctx context.Context, to, from, body string) (twilio.Message, error)
	ListMedia(ctx context.Context, messageSID string) ([]twilio.Media, error)
}

// AnnotationRepository captures the persistence interactions needed by the service.
type AnnotationRepository interface {
	InsertAnnotation(ctx context.Context, annotation persistence.MessageAnnotation) error
	GetAnnotation(ctx context.Context, messageSID string) (persistence.MessageAnnotation, error)
	ListAnnotations(ctx context.Context, messageSIDs []string) ([]persistence.MessageAnnotation, error)
}

// Message is a provider message enriched with the dashboard user who sent it,
// when known. SentBy is empty for inbound messages and for outbound messages
// sent outside the dashboard.
type Message struct {
	twilio.Message
	SentBy string
}

// MessageService reads message history from the provider and records which
// dashboard user sent each outbound message.
type MessageService struct {
	provider    MessagingProvider
	annotations AnnotationRepository
	config      ConfigRepository
	idGenerator func() string
	now         func() time.Time
}

// NewMessageService wires dependencies for message operations.
func NewMessageService(provider MessagingProvider, annotations AnnotationRepository, config ConfigRepository, idGenerator func() string, now func() time.Time) *MessageService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MessageService{
		provider:    provider,
		annotations: annotations,
		config:      config,
		idGenerator: idGenerator,
		now:         now,
	}
}

// List returns message history in the given direction, optionally narrowed to
// one counterpart number.
func (s *MessageService) List(ctx context.Context, direction, counterpart string) ([]Message, error) {
	inbound, outbound, err := s.configuredNumbers(ctx)
	if err != nil {
		return nil, err
	}

	var raw []twilio.Message
	switch direction {
	case DirectionReceived:
		if inbound == "" {
			return nil, configMissing(ConfigKeyInboundNumber)
		}
		raw, err = s.provider.ListMessages(ctx, twilio.Filter{To: inbound, From: counterpart})
	case DirectionSent:
		if outbound == "" {
			return nil, configMissing(ConfigKeyOutboundNumber)
		}
		raw, err = s.provider.ListMessages(ctx, twilio.Filter{From: outbound, To: counterpart})
	case DirectionAll, "":
		if inbound == "" && outbound == "" {
			return nil, configMissing(ConfigKeyInboundNumber)
		}
		if inbound != "" {
			received, listErr := s.provider.ListMessages(ctx, twilio.Filter{To: inbound, From: counterpart})
			if listErr != nil {
				return nil, fmt.Errorf("list messages: %w", listErr)
			}
			raw = append(raw, received...)
		}
		if outbound != "" {
			sent, listErr := s.provider.ListMessages(ctx, twilio.Filter{From: outbound, To: counterpart})
			if listErr != nil {
				return nil, fmt.Errorf("list messages: %w", listErr)
			}
			raw = append(raw, sent...)
		}
	default:
		vErr := &ValidationError{}
		vErr.add("direction", "must be one of all, received, sent")
		return nil, vErr
	}
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return s.annotate(ctx, raw)
}

// Get returns one message with its sender attribution.
func (s *MessageService) Get(ctx context.Context, sid string) (Message, error) {
	raw, err := s.provider.GetMessage(ctx, sid)
	if errors.Is(err, twilio.ErrNotFound) {
		return Message{}, ErrNotFound
	}
	if err != nil {
		return Message{}, fmt.Errorf("get message: %w", err)
	}

	message := Message{Message: raw}
	annotation, err := s.annotations.GetAnnotation(ctx, sid)
	if err == nil {
		message.SentBy = annotation.Sender
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return Message{}, fmt.Errorf("get annotation: %w", err)
	}
	return message, nil
}

// Send delivers an outbound SMS from the configured outbound number and
// records which dashboard user sent it.
func (s *MessageService) Send(ctx context.Context, senderUID, to, body string) (Message, error) {
	vErr := &ValidationError{}
	if to == "" {
		vErr.add("to", "recipient is required")
	}
	if body == "" {
		vErr.add("body", "body is required")
	}
	if vErr.HasErrors() {
		return Message{}, vErr
	}

	_, outbound, err := s.configuredNumbers(ctx)
	if err != nil {
		return Message{}, err
	}
	if outbound == "" {
		return Message{}, configMissing(ConfigKeyOutboundNumber)
	}

	raw, err := s.provider.SendMessage(ctx, to, outbound, body)
	if err != nil {
		return Message{}, fmt.Errorf("send message: %w", err)
	}

	if err := s.annotations.InsertAnnotation(ctx, persistence.MessageAnnotation{
		ID:         s.idGenerator(),
		MessageSID: raw.SID,
		Sender:     senderUID,
		CreatedAt:  s.now(),
	}); err != nil {
		return Message{}, fmt.Errorf("record sender: %w", err)
	}
	return Message{Message: raw, SentBy: senderUID}, nil
}

// Media returns a message's attachments.
func (s *MessageService) Media(ctx context.Context, sid string) ([]twilio.Media, error) {
	media, err := s.provider.ListMedia(ctx, sid)
	if errors.Is(err, twilio.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return media, nil
}

func (s *MessageService) annotate(ctx context.Context, raw []twilio.Message) ([]Message, error) {
	sids := make([]string, 0, len(raw))
	for _, message := range raw {
		sids = append(sids, message.SID)
	}

	sender := make(map[string]string)
	if len(sids) > 0 {
		annotations, err := s.annotations.ListAnnotations(ctx, sids)
		if err != nil {
			return nil, fmt.Errorf("list annotations: %w", err)
		}
		for _, annotation := range annotations {
			sender[annotation.MessageSID] = annotation.Sender
		}
	}

	messages := make([]Message, 0, len(raw))
	for _, message := range raw {
		messages = append(messages, Message{Message: message, SentBy: sender[message.SID]})
	}
	return messages, nil
}

func (s *MessageService) configuredNumbers(ctx context.Context) (inbound, outbound string, err error) {
	values, err := s.config.GetConfigValues(ctx, configKeys)
	if err != nil {
		return "", "", fmt.Errorf("get config values: %w", err)
	}
	return values[ConfigKeyInboundNumber], values[ConfigKeyOutboundNumber], nil
}

func configMissing(key string) error {
	vErr := &ValidationError{}
	vErr.add(key, "not configured")
	return vErr
}
