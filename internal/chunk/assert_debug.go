//go:build debug

package chunk

import (
	"fmt"
	"log/slog"
)

const debugBuild = true

// assertf panics in debug builds.
func assertf(_ *slog.Logger, err error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}
