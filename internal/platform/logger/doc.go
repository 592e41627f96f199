// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured
// JSON logging with configurable log levels, scrubs sensitive values through
// the redact package before anything is written, and carries request-scoped
// loggers through context.Context.
package logger
