package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/oncall-dispatch/internal/twilio"
)

// VoiceProvider captures the provider interactions needed by the service.
type VoiceProvider interface {
	ListCalls(ctx context.Context, filter twilio.Filter) ([]twilio.Call, error)
	GetCall(ctx context.Context, sid string) (twilio.Call, error)
}

// CallService reads call history from the provider.
type CallService struct {
	provider VoiceProvider
	config   ConfigRepository
}

// NewCallService wires dependencies for call history operations.
func NewCallService(provider VoiceProvider, config ConfigRepository) *CallService {
	return &CallService{provider: provider, config: config}
}

// List returns call history in the given direction, optionally narrowed to
// one counterpart number. Received calls are those placed to the inbound
// number; made calls are those placed from the outbound number.
func (s *CallService) List(ctx context.Context, direction, counterpart string) ([]twilio.Call, error) {
	values, err := s.config.GetConfigValues(ctx, configKeys)
	if err != nil {
		return nil, fmt.Errorf("get config values: %w", err)
	}
	inbound := values[ConfigKeyInboundNumber]
	outbound := values[ConfigKeyOutboundNumber]

	switch direction {
	case DirectionReceived:
		if inbound == "" {
			return nil, configMissing(ConfigKeyInboundNumber)
		}
		calls, err := s.provider.ListCalls(ctx, twilio.Filter{To: inbound, From: counterpart})
		if err != nil {
			return nil, fmt.Errorf("list calls: %w", err)
		}
		return calls, nil
	case DirectionMade:
		if outbound == "" {
			return nil, configMissing(ConfigKeyOutboundNumber)
		}
		calls, err := s.provider.ListCalls(ctx, twilio.Filter{From: outbound, To: counterpart})
		if err != nil {
			return nil, fmt.Errorf("list calls: %w", err)
		}
		return calls, nil
	case DirectionAll, "":
		if inbound == "" && outbound == "" {
			return nil, configMissing(ConfigKeyInboundNumber)
		}
		var calls []twilio.Call
		if inbound != "" {
			received, err := s.provider.ListCalls(ctx, twilio.Filter{To: inbound, From: counterpart})
			if err != nil {
				return nil, fmt.Errorf("list calls: %w", err)
			}
			calls = append(calls, received...)
		}
		if outbound != "" {
			made, err := s.provider.ListCalls(ctx, twilio.Filter{From: outbound, To: counterpart})
			if err != nil {
				return nil, fmt.Errorf("list calls: %w", err)
			}
			calls = append(calls, made...)
		}
		return calls, nil
	default:
		vErr := &ValidationError{}
		vErr.add("direction", "must be one of all, received, made")
		return nil, vErr
	}
}

// Get returns one call by SID.
func (s *CallService) Get(ctx context.Context, sid string) (twilio.Call, error) {
	call, err := s.provider.GetCall(ctx, sid)
	if errors.Is(err, twilio.ErrNotFound) {
		return twilio.Call{}, ErrNotFound
	}
	if err != nil {
		return twilio.Call{}, fmt.Errorf("get call: %w", err)
	}
	return call, nil
}
