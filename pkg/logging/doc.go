// Package logging provides structured logging configuration for expect clients
// and the expect command.
//
// This package wraps log/slog. Clients log at Debug when a request is matched
// and at Warn when a request is unexpected, mismatched, or an assertion fails.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	client := expect.NewClient(expect.WithLogger(logger))
//
// Without an explicit logger, clients call FromEnv, which honours
// EXPECT_LOG_LEVEL and EXPECT_LOG_FORMAT and is silent when both are unset.
//
// # Integration
//
// Components should accept a *slog.Logger in their constructor or via an option.
// If no logger is provided, use logging.Nop() for a no-op logger.
package logging
