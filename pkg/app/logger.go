package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldMode  = "mode"
	FieldPath  = "path"
	FieldCount = "count"
	FieldSize  = "size"
)

// InitLogger replaces the no-op logger with a console logger writing to
// ErrWriter when --verbose is set.
func (a *App) InitLogger() {
	if !a.Verbose {
		a.Logger = zap.NewNop()
		return
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(a.ErrWriter),
		zapcore.DebugLevel,
	)
	a.Logger = zap.New(core)
}
