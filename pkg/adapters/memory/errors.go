package memory

import (
	"context"
	"sync"

	"github.com/aretw0/protocolfill/pkg/domain"
)

// ErrorLog implements ports.ErrorLog in memory.
// Safe for concurrent use.
type ErrorLog struct {
	data map[string][]domain.ProtocolError
	mu   sync.RWMutex
}

// NewErrorLog creates an empty in-memory error log.
func NewErrorLog() *ErrorLog {
	return &ErrorLog{data: make(map[string][]domain.ProtocolError)}
}

// Report appends errs to the session's log.
func (l *ErrorLog) Report(ctx context.Context, sessionID string, errs []domain.ProtocolError) error {
	if len(errs) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range errs {
		e.Images = append([]string{}, e.Images...)
		l.data[sessionID] = append(l.data[sessionID], e)
	}
	return nil
}

// Errors returns a copy of the session's errors.
func (l *ErrorLog) Errors(ctx context.Context, sessionID string) ([]domain.ProtocolError, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ProtocolError, 0, len(l.data[sessionID]))
	for _, e := range l.data[sessionID] {
		e.Images = append([]string{}, e.Images...)
		out = append(out, e)
	}
	return out, nil
}
