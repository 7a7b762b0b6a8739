package chain

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/msgchain/core/logger"
)

// Logging logs each message's start and completion. A nil logger falls back
// to the build's logger.
func Logging[T any](log *slog.Logger, name string) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		l := log
		if l == nil {
			l = s.Logger()
		}

		return func(ctx context.Context, msg T) error {
			start := time.Now()
			l.DebugContext(ctx, "message started", logger.Chain(name))

			err := next(ctx, msg)
			outcome := ClassifyOutcome(ctx, err)

			switch outcome {
			case Succeeded:
				l.InfoContext(ctx, "message completed",
					logger.Chain(name),
					logger.Outcome(outcome.String()),
					logger.Elapsed(start))
			case Cancelled:
				l.WarnContext(ctx, "message cancelled",
					logger.Chain(name),
					logger.Outcome(outcome.String()),
					logger.Elapsed(start),
					logger.Error(err))
			default:
				l.ErrorContext(ctx, "message failed",
					logger.Chain(name),
					logger.Outcome(outcome.String()),
					logger.Elapsed(start),
					logger.Error(err))
			}

			return err
		}, nil
	}
}
