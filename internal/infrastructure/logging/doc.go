// Package logging provides structured logging for the home automation service.
//
// This package wraps Go's standard log/slog package. Every record carries
// the service name and version.
//
// # Configuration
//
//	logging:
//	  level: "warn"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr, file
//	  file:
//	    path: "/var/log/homeauto/homeauto.log"
//	    max_size: 10     # megabytes before rotation
//	    max_backups: 3
//	    max_age: 28      # days
//	    compress: true
//
// The interactive shell writes to stdout, so the CLI defaults to stderr.
// File output rotates through lumberjack.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	defer logger.Close()
//	logger.Info("routine executed", "routine", "morning")
package logging
