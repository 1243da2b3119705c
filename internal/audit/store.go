package audit

import (
	"context"

	"vocert/internal/sentinel"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = sentinel.ErrNotFound

type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectDID string) ([]Event, error)
}
