//go:build !windows && !linux && !darwin

package discovery

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/shell"
	shellregistry "github.com/kmatyas/twopane/internal/shell/registry"
)

// Common tools probed on platforms without a native registration store.
var fallbackProbes = []string{
	"vlc", "git", "code", "subl", "vim", "nvim", "7z", "unzip", "tar",
}

// fallbackStrategy probes the PATH for well-known tools. It produces no
// context menus; the provider degrades to its defaults.
type fallbackStrategy struct{}

func NewStrategy(reader shellregistry.Reader, cfg config.DiscoveryConfig) Strategy {
	return &fallbackStrategy{}
}

func (f *fallbackStrategy) Name() string { return "path-probe" }

func (f *fallbackStrategy) DiscoverApplications(ctx context.Context) (map[string]shell.ApplicationInfo, error) {
	apps := make(map[string]shell.ApplicationInfo)
	for _, name := range fallbackProbes {
		if ctx.Err() != nil {
			return apps, nil
		}
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		apps[shell.NormalizeAppID(name)] = shell.ApplicationInfo{
			Name:            name,
			Executable:      path,
			InstallPath:     filepath.Dir(path),
			Exists:          true,
			Platform:        runtime.GOOS,
			DiscoveryMethod: "path_probe",
		}
	}
	return apps, nil
}

func (f *fallbackStrategy) DiscoverContextMenus(ctx context.Context) (map[string][]shell.ExtensionEntry, error) {
	return map[string][]shell.ExtensionEntry{}, nil
}
