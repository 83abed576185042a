//go:build !windows

package registry

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/kmatyas/twopane/internal/shell"
)

// stubReader satisfies Reader on platforms without a registry hive so the
// composition root can be written once. Every lookup reports
// shell.ErrRegistryAccess; callers degrade to platform strategies.
type stubReader struct{}

func NewReader(ttl time.Duration) Reader {
	return stubReader{}
}

func (stubReader) FileType(ctx context.Context, path string) (shell.FileType, error) {
	return shell.FileType{}, errUnsupported()
}

func (stubReader) VerbsForType(ctx context.Context, typeKey string) ([]shell.ExtensionEntry, error) {
	return nil, errUnsupported()
}

func (stubReader) VerbsForExtension(ctx context.Context, extension string) ([]shell.ExtensionEntry, error) {
	return nil, errUnsupported()
}

func (stubReader) ClearCache(ctx context.Context) error { return nil }

func (stubReader) Stats() shell.CacheStats { return shell.CacheStats{} }

func errUnsupported() error {
	return fmt.Errorf("%w: no registry on %s", shell.ErrRegistryAccess, runtime.GOOS)
}
