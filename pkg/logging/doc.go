// Package logging provides structured logging for gnbtest with unified log
// handling and level filtering.
//
// The package is a thin wrapper around Go's standard slog package. Every log
// entry carries a timestamp, a level, a subsystem identifier, the message,
// and optional error information.
//
// Usage:
//
//	logging.Init(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Bootstrap", "Harness starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Error("Batch", err, "Batch run failed")
package logging
