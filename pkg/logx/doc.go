// Package logx configures alerting's structured logging.
//
// It wraps zerolog behind a small value type (logx.Logger) so that:
//   - Console output stays readable (short timestamp + short caller)
//   - File output is JSON, one event per line
//   - Library code can accept the zero Logger and log nothing
package logx
