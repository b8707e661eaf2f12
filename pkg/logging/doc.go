// Package logging provides structured logging utilities for DeviceCode components.
//
// # Overview
//
// This package wraps the standard library slog package with DeviceCode-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("devicecode", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("processing request", "id", "req-123")
//	    slog.Debug("detailed state", "data", complexObject)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("composer", "v2.0.0", "debug")
//	logger.Info("composing dataset", "records", 71000)
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cli", "v1.0.0", "warn")
//
// Converting standard library logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelInfo, false)
//	stdLogger.Println("legacy log message")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug devicecode search
//	LOG_LEVEL=error devicecode squash
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "records loaded",
//	    "module": "devicecode",
//	    "version": "v1.0.0",
//	    "count": 71000
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "store.loadSource",
//	        "file": "store.go",
//	        "line": 45
//	    },
//	    "msg": "applying overlays",
//	    "module": "devicecode",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("myapp", version)
//	    defer slog.Info("application started")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("dataset composed",
//	    "devices", 12500,
//	    "brands", 430,
//	    "duration_ms", 125,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("skipping malformed record", "path", p)  // Development/troubleshooting
//	slog.Info("store loaded")                           // Normal operations
//	slog.Warn("brand conflict")                         // Potential issues
//	slog.Error("output directory missing")              // Errors requiring action
//
// 4. Log errors with context:
//
//	slog.Error("failed to write squashed record",
//	    "error", err,
//	    "title", title,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/store - Record and overlay loading logging
//   - pkg/squash - Reconciliation logging
//   - pkg/compose - Dataset composition logging
//
// All components share consistent logging format and configuration.
package logging
