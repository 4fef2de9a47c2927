package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ZapLogger adapts zap.Logger to the go-redis internal logger
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger creates a new ZapLogger adapter
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// Printf logs a go-redis message at debug level
func (z *ZapLogger) Printf(_ context.Context, format string, v ...interface{}) {
	z.logger.Debug(fmt.Sprintf(format, v...))
}
