package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB      Pinger
	Storage string
	Timeout time.Duration
}

// NewService constructs a new health service. db may be nil for in-memory repositories.
func NewService(db Pinger, storage string) *Service {
	return &Service{DB: db, Storage: storage, Timeout: 2 * time.Second}
}

// Status reports dependency health. ok is false when the database does not answer.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	payload := map[string]any{
		"ok":       true,
		"storage":  s.Storage,
		"database": "memory",
	}
	if s.DB == nil {
		return payload, true
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.DB.PingContext(pingCtx); err != nil {
		payload["ok"] = false
		payload["database"] = "unavailable"
		return payload, false
	}
	payload["database"] = "ok"
	return payload, true
}
