package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global logger instance, set by Init.
var L *zap.Logger

// Init builds the global logger. Production mode uses the JSON encoder,
// development mode the human-readable console encoder.
func Init(production bool) error {
	var err error
	if production {
		L, err = zap.NewProduction()
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		L, err = config.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	return nil
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
