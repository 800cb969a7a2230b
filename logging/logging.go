package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a file-backed JSON logger, or a nop logger when path is
// empty. Stdout is never a log sink here: the TUI draws on it.
func New(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(f),
		zap.DebugLevel,
	)
	return zap.New(core), nil
}
