// Package logger builds the *slog.Logger instances used across the session
// toolkit and provides attribute helpers that keep key names consistent.
//
// New assembles a text or JSON slog.Handler from functional options, attaches
// static attributes and wraps the result in a handler that pulls extra
// attributes out of context.Context on every record. Components of this module
// accept a logger through their WithLogger option and fall back to Noop, so
// logging is opt-in for library users.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("sessioncheck"),
//	    logger.WithContextValue("handshake_id", handshakeKey{}),
//	)
//
//	provider, err := session.New(cfg, httpTransport, session.WithLogger(log))
//
//	log.WarnContext(ctx, "session validation failed",
//	    logger.Provider("cookie"),
//	    logger.Error(err),
//	)
//
// # Configuration
//
// Config carries LOG_LEVEL and LOG_FORMAT so command line tools can build a
// logger from the environment with NewFromConfig.
//
// # Error Handling
//
// Error and UserID return an empty attribute for nil values, which slog drops,
// so callers can log optional values without a nil check.
package logger
