package desktop

import (
	"github.com/wailsapp/wails/v2/pkg/logger"
	"go.uber.org/zap"
)

// zapLogger routes the runtime's own log output into zap.
type zapLogger struct {
	log *zap.Logger
}

// NewLogger adapts a zap logger to the Wails logger interface
func NewLogger(log *zap.Logger) logger.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &zapLogger{log: log.WithOptions(zap.AddCallerSkip(1))}
}

func (l *zapLogger) Print(message string)   { l.log.Info(message) }
func (l *zapLogger) Trace(message string)   { l.log.Debug(message) }
func (l *zapLogger) Debug(message string)   { l.log.Debug(message) }
func (l *zapLogger) Info(message string)    { l.log.Info(message) }
func (l *zapLogger) Warning(message string) { l.log.Warn(message) }
func (l *zapLogger) Error(message string)   { l.log.Error(message) }

// Fatal logs at error level. The runtime exits on its own after a fatal
// message; zap's Fatal would skip its cleanup.
func (l *zapLogger) Fatal(message string) { l.log.Error(message, zap.Bool("fatal", true)) }
