// Package zap adapts go.uber.org/zap to the payments log.Logger interface.
//
// Events are JSON encoded on stderr; stdout is reserved for the account
// snapshot written by the CLI.
package zap
