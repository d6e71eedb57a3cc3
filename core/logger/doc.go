// Package logger builds the zap logger every command and feature writes through.
//
// Level "debug" selects zap's development preset (ISO8601 times, caller info); any
// other level uses the production preset at that level. Format picks json or a
// colored console encoder.
//
// # Ray IDs
//
// WithRayID copies the ray id that core/middleware/rayid stored on the Fiber
// context into a child logger, so every line written while serving a request
// can be joined on ray_id.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	l := logger.WithRayID(log, c)
//	l.Warn("Order problems detected", zap.Strings("scopes", problems))
package logger
