// Package logger provides slog attribute helpers shared by the chain, bus and
// wire-up packages.
//
// Helpers follow the empty Attr pattern: passing a nil error or an empty
// identifier yields an empty slog.Attr, which slog skips. This allows calls
// like log.Info("msg", logger.Error(err)) without explicit nil checks.
//
//	log.ErrorContext(ctx, "message failed",
//		logger.Chain("orders"),
//		logger.Attempt(3, 5),
//		logger.Error(err),
//	)
package logger
