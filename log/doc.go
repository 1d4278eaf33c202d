// Package log provides fast, structured logging based on Go's slog package.
//
// This package wraps Go's standard slog library with additional convenience
// functions and configuration options specifically designed for retro console
// emulation and tooling development.
//
// # Features
//
//   - Structured logging with key-value pairs
//   - Console output with attributes rendered as JSON; any slog.Handler can be
//     substituted through Config.Handler
//   - Configurable log levels
//   - High performance with minimal allocations
//   - Console-friendly formatting
//   - Testing utilities for log verification
//
// # Basic Usage
//
//	import "github.com/retrotools/a8086/log"
//
//	func main() {
//		logger := log.NewWithConfig(log.Config{
//			Level: log.InfoLevel,
//		})
//
//		logger.Info("Starting emulation",
//			log.String("system", "NES"),
//			log.Int("rom_size", 32768),
//		)
//
//		logger.Error("Failed to load ROM",
//			log.String("filename", "game.nes"),
//			log.String("error", err.Error()),
//		)
//	}
//
// # Log Levels
//
//   - Debug: Detailed diagnostic information
//   - Info: General operational messages
//   - Warn: Warning conditions that don't halt operation
//   - Error: Error conditions that may affect functionality
//
// # Output Formats
//
//   - Console (default): time, level and message as text, followed by the
//     record's attributes as a JSON object
//   - Any other slog.Handler set in Config.Handler
//
// # Performance
//
// The logging system is designed for high performance:
//   - Zero allocation for disabled log levels
//   - Efficient field handling
//   - Minimal overhead in hot paths like CPU emulation loops
//
// # Testing Support
//
// The package includes utilities for testing log output:
//   - Capture log messages in tests
//   - Verify specific log entries were written
//   - Mock logging for isolated unit tests
//
// # Thread Safety
//
// All logging operations are thread-safe and can be used concurrently
// from multiple goroutines without external synchronization.
package log
