//go:build !debug

package chunk

import (
	"fmt"
	"log/slog"
)

const debugBuild = false

// assertf logs the violation and lets the caller recover.
func assertf(log *slog.Logger, err error, format string, args ...any) {
	log.Warn("invariant violation", "error", fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}
