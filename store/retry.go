package store

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// RetryPolicy re-runs a transactional operation when it fails for a
// transient reason. Domain failures (ErrNotFound, ErrInvalidState,
// ErrConflict) are never retried; a conflict means another writer won
// and rerunning would just report the new state.
type RetryPolicy struct {
	Attempts  int
	Backoff   time.Duration
	Transient func(error) bool
}

func DefaultRetryPolicy(attempts int, backoff time.Duration) RetryPolicy {
	if attempts < 1 {
		attempts = 1
	}
	return RetryPolicy{Attempts: attempts, Backoff: backoff, Transient: IsTransient}
}

func (p RetryPolicy) Do(fn func() error) error {
	var err error
	for i := 0; i < p.Attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if p.Transient == nil || !p.Transient(err) {
			return err
		}
		if i < p.Attempts-1 {
			time.Sleep(p.Backoff * time.Duration(i+1))
		}
	}
	return err
}

// IsTransient reports whether an error is worth retrying: serialization
// failures, deadlocks, and dropped connections on Postgres, busy or
// locked database on SQLite.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidState) || errors.Is(err, ErrConflict) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
		return strings.HasPrefix(pgErr.Code, "08")
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
