// Package logger wraps zap with a process-wide atomic level and context-scoped fields.
// Every logging helper takes a context so that task, batch and platform identifiers
// attached with WithKV follow the message wherever it is emitted.
package logger
