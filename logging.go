package subpage

import (
	"context"
	"log/slog"

	"github.com/pthm/subpage/lib/logctx"
)

// LoggingContext returns a copy of ctx that carries logger. Every package
// of subpage logs through the logger of the context it is handed; without
// one nothing is logged.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return logctx.With(ctx, logger)
}

// Logger returns the logger carried by ctx.
func Logger(ctx context.Context) *slog.Logger {
	return logctx.From(ctx)
}
