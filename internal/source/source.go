package source

import (
	"context"
	"errors"

	"github.com/okarpov/turncoat/internal/model"
)

// ErrUnavailable means the statement source could not be reached or
// refused the request
var ErrUnavailable = errors.New("statement source unavailable")

// Source supplies a subject's historical items. Pagination, retry, and
// rate limiting are the implementation's concern; the pipeline only sees
// the merged item set.
type Source interface {
	// Fetch returns the subject's comments and posts as raw items
	Fetch(ctx context.Context, subject string) ([]model.RawItem, error)
}
