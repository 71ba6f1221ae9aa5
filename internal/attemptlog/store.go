package attemptlog

import (
	"context"

	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

// Store is the append-only attempt log. Append writes exactly one
// entry per validation call and must fail loudly: a lost attempt
// record is not recoverable. List returns entries in append order;
// an empty assignment filter returns everything.
type Store interface {
	Append(ctx context.Context, attempt model.Attempt) error
	List(ctx context.Context, assignment string) ([]model.Attempt, error)
}
