package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the console logger used by every command and installs it as the
// zap global and the standard library log output. Unknown levels fall back to info.
func New(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stderr),
		lvl,
	)

	logger := zap.New(core, zap.AddCaller())

	zap.ReplaceGlobals(logger)
	log.SetOutput(zap.NewStdLog(logger).Writer())

	return logger
}
