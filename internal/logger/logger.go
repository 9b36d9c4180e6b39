package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared logger. It discards everything until Init is called.
var Log = zap.NewNop()

// Init replaces Log. Debug selects a development logger at debug level;
// otherwise a production logger at info level is installed.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Set installs l as the shared logger. A nil l restores the no-op logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
