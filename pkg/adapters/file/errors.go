package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/protocolfill/pkg/domain"
)

func (s *Store) errorsPath(sessionID string) (string, error) {
	if sessionID == "" || sessionID != filepath.Base(sessionID) {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	return filepath.Join(s.BasePath, "errors", sessionID+".jsonl"), nil
}

// Report appends errs to errors/<sessionID>.jsonl, one JSON object per line.
func (s *Store) Report(ctx context.Context, sessionID string, errs []domain.ProtocolError) error {
	if len(errs) == 0 {
		return nil
	}
	path, err := s.errorsPath(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure errors directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range errs {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to append error: %w", err)
		}
	}
	return f.Sync()
}

// Errors reads back the errors of a session.
func (s *Store) Errors(ctx context.Context, sessionID string) ([]domain.ProtocolError, error) {
	path, err := s.errorsPath(sessionID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.ProtocolError{}, nil
		}
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	out := []domain.ProtocolError{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e domain.ProtocolError
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("failed to decode error log: %w", err)
		}
		out = append(out, e)
	}
	return out, scanner.Err()
}
