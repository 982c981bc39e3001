package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/protocolfill/pkg/domain"
)

// Report appends errs to the session list.
func (s *Store) Report(ctx context.Context, sessionID string, errs []domain.ProtocolError) error {
	if len(errs) == 0 {
		return nil
	}
	values := make([]any, 0, len(errs))
	for _, e := range errs {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal protocol error: %w", err)
		}
		values = append(values, data)
	}

	key := s.errorsKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to report errors: %w", err)
	}
	return nil
}

// Errors returns every error reported for the session, oldest first.
func (s *Store) Errors(ctx context.Context, sessionID string) ([]domain.ProtocolError, error) {
	vals, err := s.client.LRange(ctx, s.errorsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list errors: %w", err)
	}
	out := make([]domain.ProtocolError, 0, len(vals))
	for _, v := range vals {
		var e domain.ProtocolError
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal protocol error: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
