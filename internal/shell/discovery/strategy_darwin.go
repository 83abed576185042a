//go:build darwin

package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/shell"
	shellregistry "github.com/kmatyas/twopane/internal/shell/registry"
)

// darwinStrategy scans .app bundles and reads each bundle's Info.plist.
// Context menus come from the document types a bundle declares, keyed by
// normalized extension.
type darwinStrategy struct{}

func NewStrategy(reader shellregistry.Reader, cfg config.DiscoveryConfig) Strategy {
	return &darwinStrategy{}
}

func (d *darwinStrategy) Name() string { return "darwin-bundles" }

func bundleDirs() []string {
	dirs := []string{"/Applications", "/System/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Applications"))
	}
	return dirs
}

type bundleInfo struct {
	Name          string         `plist:"CFBundleName"`
	DisplayName   string         `plist:"CFBundleDisplayName"`
	Executable    string         `plist:"CFBundleExecutable"`
	Identifier    string         `plist:"CFBundleIdentifier"`
	Version       string         `plist:"CFBundleShortVersionString"`
	DocumentTypes []documentType `plist:"CFBundleDocumentTypes"`
}

type documentType struct {
	Extensions []string `plist:"CFBundleTypeExtensions"`
}

func (d *darwinStrategy) DiscoverApplications(ctx context.Context) (map[string]shell.ApplicationInfo, error) {
	apps := make(map[string]shell.ApplicationInfo)
	readable := 0

	for _, dir := range bundleDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Debug(log.CatDiscovery, "bundle dir unreadable", "dir", dir, "error", err)
			continue
		}
		readable++
		for _, entry := range entries {
			if ctx.Err() != nil {
				return apps, nil
			}
			if !strings.HasSuffix(entry.Name(), ".app") {
				continue
			}
			bundlePath := filepath.Join(dir, entry.Name())
			info, ok := readBundle(bundlePath)
			if !ok {
				continue
			}
			id := shell.NormalizeAppID(info.Name)
			if _, exists := apps[id]; !exists {
				apps[id] = info
			}
		}
	}

	if readable == 0 {
		return nil, fmt.Errorf("%w: no bundle directories readable", shell.ErrRegistryAccess)
	}
	return apps, nil
}

func (d *darwinStrategy) DiscoverContextMenus(ctx context.Context) (map[string][]shell.ExtensionEntry, error) {
	menus := make(map[string][]shell.ExtensionEntry)

	for _, dir := range bundleDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				return menus, nil
			}
			if !strings.HasSuffix(entry.Name(), ".app") {
				continue
			}
			bundlePath := filepath.Join(dir, entry.Name())
			info, extensions, ok := readBundleDocumentTypes(bundlePath)
			if !ok {
				continue
			}

			menuEntry := shell.ExtensionEntry{
				Text:         "Open with " + info.Name,
				Command:      fmt.Sprintf("open -a %q", bundlePath),
				Action:       "open_with_" + shell.NormalizeAppID(info.Name),
				RegistryPath: bundlePath,
				Executable:   info.Executable,
			}
			for _, extension := range extensions {
				key := shellregistry.NormalizeExtension(extension)
				if key == "" {
					continue
				}
				menus[key] = append(menus[key], menuEntry)
			}
		}
	}
	return menus, nil
}

func readBundle(bundlePath string) (shell.ApplicationInfo, bool) {
	raw, ok := decodeInfoPlist(bundlePath)
	if !ok {
		return shell.ApplicationInfo{}, false
	}
	return bundleApplication(bundlePath, raw), true
}

// readBundleDocumentTypes decodes a bundle's Info.plist once and returns
// both the application record and the extensions its document types claim.
func readBundleDocumentTypes(bundlePath string) (shell.ApplicationInfo, []string, bool) {
	raw, ok := decodeInfoPlist(bundlePath)
	if !ok {
		return shell.ApplicationInfo{}, nil, false
	}

	var extensions []string
	for _, docType := range raw.DocumentTypes {
		extensions = append(extensions, docType.Extensions...)
	}
	if len(extensions) == 0 {
		return shell.ApplicationInfo{}, nil, false
	}
	return bundleApplication(bundlePath, raw), extensions, true
}

// bundleApplication builds the application record from decoded plist data.
func bundleApplication(bundlePath string, raw bundleInfo) shell.ApplicationInfo {
	name := raw.DisplayName
	if name == "" {
		name = raw.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(bundlePath), ".app")
	}

	info := shell.ApplicationInfo{
		Name:            name,
		InstallPath:     bundlePath,
		Version:         raw.Version,
		Platform:        "darwin",
		DiscoveryMethod: "app_bundles",
		BundleID:        raw.Identifier,
	}
	if raw.Executable != "" {
		executable := filepath.Join(bundlePath, "Contents", "MacOS", raw.Executable)
		if _, err := os.Stat(executable); err == nil {
			info.Executable = executable
			info.Exists = true
		}
	}
	return info
}

func decodeInfoPlist(bundlePath string) (bundleInfo, bool) {
	path := filepath.Join(bundlePath, "Contents", "Info.plist")
	file, err := os.Open(path) //nolint:gosec // G304: paths come from the bundle directories
	if err != nil {
		return bundleInfo{}, false
	}
	defer file.Close()

	var raw bundleInfo
	if err := plist.NewDecoder(file).Decode(&raw); err != nil {
		log.Debug(log.CatDiscovery, "unparseable Info.plist", "path", path, "error", err)
		return bundleInfo{}, false
	}
	return raw, true
}
