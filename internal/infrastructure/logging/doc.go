// Package logging provides structured logging using uber/zap.
//
// The root logger is built from the [logging] config section. Production
// lines are JSON; development lines are colored console output with stack
// traces.
//
// Components receive a named *zap.Logger (see Logger.Component) so every line
// carries the subsystem that wrote it (window, gate, bridge, skills, backend).
//
// Example Usage:
//
//	logger, err := logging.New(cfg.Logging)
//	logger.Info("bridge listening", zap.String("addr", addr))
//	logger.Component("window").Debug("window shown")
package logging
