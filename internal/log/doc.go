// Package log provides console logging for fsmstrip, built on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - A compact console format ("[LEVEL] message key=value") suited to a
//     short-lived CLI, instead of the timestamped slog text format
//   - Quiet/normal/verbose level mapping driven by the -q and -v flags
//   - Consistent log formatting across the application
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, log.VerbosityNormal)
//	slog.SetDefault(logger)
//
//	logger.Warn("could not find the exact value of t_b requested",
//	    "t_b_min", 6.349,
//	    "t_b_max", 6.351,
//	)
package log
