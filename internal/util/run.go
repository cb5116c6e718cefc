package util

import (
	"context"

	"github.com/google/uuid"
)

// WithRunID tags every log line written through ctx with a fresh run id.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	l := LogFromContext(ctx).With().Str("run_id", id).Logger()

	return WithLogger(ctx, l), id
}
