package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// GetConfigValues returns the stored values for the requested keys. Missing
// keys are simply absent from the result map.
func (s *Store) GetConfigValues(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	args := make([]any, 0, len(keys))
	for _, key := range keys {
		args = append(args, key)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM config_values WHERE key IN (`+placeholders(len(keys))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get config values: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("sqlite: get config values: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: get config values: %w", err)
	}
	return values, nil
}

// SetConfigValue stores a configuration value, replacing any previous one.
func (s *Store) SetConfigValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config_values (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("sqlite: set config value: %w", err)
	}
	return nil
}

var _ persistence.ConfigRepository = (*Store)(nil)
var _ persistence.ScheduleRepository = (*Store)(nil)
var _ persistence.StaffRepository = (*Store)(nil)
var _ persistence.PhonebookRepository = (*Store)(nil)
var _ persistence.NoteRepository = (*Store)(nil)
var _ persistence.AnnotationRepository = (*Store)(nil)
