// Package logger constructs the process-wide structured logger.
package logger

import (
	"go.uber.org/zap"
)

// New builds a zap logger. Development mode switches to the human-readable
// console encoder with debug level.
func New(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
