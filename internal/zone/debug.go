package zone

import "sync/atomic"

// debugLoggingEnabled guards per-query debug logs so hot paths skip slog entirely.
// Set via EnableDebugLogging() during initialization based on config.LogLevel.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for the zone subsystem.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
// Use this to guard debug log calls on the query path:
//
//	if zone.IsDebugEnabled() {
//	    slog.Debug("zone transition", "zone", z.Name())
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
