// Package timeout defines the deadlines for model-backed operations.
package timeout

import "time"

const (
	// ModelTimeout bounds a fallback resolution call, retries included.
	ModelTimeout = 12 * time.Second

	// TranslationTimeout bounds a Catalan to Spanish translation call.
	TranslationTimeout = 8 * time.Second

	// ShutdownTimeout bounds graceful HTTP server shutdown.
	ShutdownTimeout = 10 * time.Second

	// MaxRetries is the number of attempts for a single model call.
	MaxRetries = 3

	// MaxTruncateLength caps model text echoed into logs.
	MaxTruncateLength = 200
)

// Truncate shortens s to MaxTruncateLength bytes for logging.
func Truncate(s string) string {
	if len(s) <= MaxTruncateLength {
		return s
	}
	return s[:MaxTruncateLength] + "..."
}
