//go:build windows

package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	winregistry "golang.org/x/sys/windows/registry"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/platform"
	"github.com/kmatyas/twopane/internal/shell"
	"github.com/kmatyas/twopane/internal/shell/detector"
	shellregistry "github.com/kmatyas/twopane/internal/shell/registry"
)

// Installer executables are deprioritized when picking an install
// directory's main binary.
var installerNames = []string{"setup", "install", "uninstall", "uninst", "update", "helper"}

type hiveRoot struct {
	hive winregistry.Key
	path string
}

// uninstallRoots lists the uninstall-record hives to scan. The WOW6432Node
// view only exists for 64-bit processes.
func uninstallRoots(is64Bit bool) []hiveRoot {
	roots := []hiveRoot{
		{winregistry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
		{winregistry.CURRENT_USER, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	}
	if is64Bit {
		roots = append(roots, hiveRoot{winregistry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`})
	}
	return roots
}

func appPathRoots(is64Bit bool) []string {
	roots := []string{`SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths`}
	if is64Bit {
		roots = append(roots, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\App Paths`)
	}
	return roots
}

// windowsStrategy reads HKLM/HKCU uninstall records, App Paths,
// Classes\Applications, and the per-type shell subtrees.
type windowsStrategy struct {
	reader      shellregistry.Reader
	maxTypeKeys int
	uninstall   []hiveRoot
	appPaths    []string
}

func NewStrategy(reader shellregistry.Reader, cfg config.DiscoveryConfig) Strategy {
	is64Bit := platform.Current().Is64Bit
	return &windowsStrategy{
		reader:      reader,
		maxTypeKeys: cfg.MaxTypeKeys,
		uninstall:   uninstallRoots(is64Bit),
		appPaths:    appPathRoots(is64Bit),
	}
}

func (w *windowsStrategy) Name() string { return "windows-registry" }

func (w *windowsStrategy) DiscoverApplications(ctx context.Context) (map[string]shell.ApplicationInfo, error) {
	apps := make(map[string]shell.ApplicationInfo)

	MergeApplications(apps, w.scanUninstall(ctx))
	MergeApplications(apps, w.scanAppPaths(ctx))
	MergeApplications(apps, w.scanClassesApplications(ctx))

	if len(apps) == 0 {
		return nil, fmt.Errorf("%w: no uninstall or app-paths records readable", shell.ErrRegistryAccess)
	}
	return apps, nil
}

func (w *windowsStrategy) DiscoverContextMenus(ctx context.Context) (map[string][]shell.ExtensionEntry, error) {
	menus := make(map[string][]shell.ExtensionEntry)

	root, err := winregistry.OpenKey(winregistry.CLASSES_ROOT, "", winregistry.READ)
	if err != nil {
		return nil, fmt.Errorf("%w: opening classes root: %v", shell.ErrRegistryAccess, err)
	}
	names, err := root.ReadSubKeyNames(-1)
	root.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerating classes root: %v", shell.ErrRegistryAccess, err)
	}

	scanned := 0
	for _, typeKey := range names {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if strings.HasPrefix(typeKey, "CLSID") {
			continue
		}
		if scanned >= w.maxTypeKeys {
			log.Warn(log.CatDiscovery, "type-key scan capped", "limit", w.maxTypeKeys)
			break
		}
		scanned++

		entries := w.entriesForType(ctx, typeKey)
		if len(entries) > 0 {
			menus[typeKey] = entries
		}
	}

	// Universal buckets apply to every file or folder regardless of type.
	for _, bucket := range shell.UniversalTypeKeys {
		entries := w.entriesForType(ctx, bucket)
		if len(entries) > 0 {
			menus[bucket] = entries
		}
	}

	return menus, nil
}

// entriesForType collects a type's own verbs plus the verbs of the program
// id an extension points at, annotating each with its resolved executable.
func (w *windowsStrategy) entriesForType(ctx context.Context, typeKey string) []shell.ExtensionEntry {
	entries, err := w.reader.VerbsForType(ctx, typeKey)
	if err != nil {
		log.Debug(log.CatDiscovery, "verbs unreadable", "type", typeKey, "error", err)
	}

	if strings.HasPrefix(typeKey, ".") {
		indirect, err := w.reader.VerbsForExtension(ctx, typeKey)
		if err == nil {
			entries = append(entries, indirect...)
		}
	}

	for i := range entries {
		entries[i].Executable = extractExistingExecutable(entries[i].Command)
	}
	return entries
}

func (w *windowsStrategy) scanUninstall(ctx context.Context) map[string]shell.ApplicationInfo {
	apps := make(map[string]shell.ApplicationInfo)

	for _, root := range w.uninstall {
		key, err := winregistry.OpenKey(root.hive, root.path, winregistry.READ)
		if err != nil {
			log.Debug(log.CatDiscovery, "uninstall root unreadable", "path", root.path, "error", err)
			continue
		}
		names, err := key.ReadSubKeyNames(-1)
		if err != nil {
			key.Close()
			continue
		}
		for _, sub := range names {
			if ctx.Err() != nil {
				key.Close()
				return apps
			}
			app, ok := readUninstallEntry(key, root.path, sub)
			if !ok {
				continue
			}
			id := shell.NormalizeAppID(app.Name)
			if _, exists := apps[id]; !exists {
				apps[id] = app
			}
		}
		key.Close()
	}
	return apps
}

func readUninstallEntry(parent winregistry.Key, rootPath, sub string) (shell.ApplicationInfo, bool) {
	key, err := winregistry.OpenKey(parent, sub, winregistry.QUERY_VALUE)
	if err != nil {
		return shell.ApplicationInfo{}, false
	}
	defer key.Close()

	stringValue := func(name string) string {
		v, _, err := key.GetStringValue(name)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(v)
	}

	name := stringValue("DisplayName")
	if name == "" {
		return shell.ApplicationInfo{}, false
	}

	app := shell.ApplicationInfo{
		Name:            name,
		Version:         stringValue("DisplayVersion"),
		InstallPath:     stringValue("InstallLocation"),
		Icon:            stringValue("DisplayIcon"),
		Platform:        "windows",
		DiscoveryMethod: "uninstall_registry",
		RegistryKey:     rootPath + `\` + sub,
	}

	if exe := findMainExecutable(app.InstallPath, app.Icon, stringValue("UninstallString")); exe != "" {
		app.Executable = exe
		app.Exists = true
	}
	return app, true
}

func (w *windowsStrategy) scanAppPaths(ctx context.Context) map[string]shell.ApplicationInfo {
	apps := make(map[string]shell.ApplicationInfo)

	for _, rootPath := range w.appPaths {
		key, err := winregistry.OpenKey(winregistry.LOCAL_MACHINE, rootPath, winregistry.READ)
		if err != nil {
			log.Debug(log.CatDiscovery, "app-paths root unreadable", "path", rootPath, "error", err)
			continue
		}
		names, err := key.ReadSubKeyNames(-1)
		if err != nil {
			key.Close()
			continue
		}
		for _, sub := range names {
			subKey, err := winregistry.OpenKey(key, sub, winregistry.QUERY_VALUE)
			if err != nil {
				continue
			}
			exePath, _, err := subKey.GetStringValue("")
			subKey.Close()
			if err != nil || exePath == "" {
				continue
			}

			name := strings.TrimSuffix(sub, filepath.Ext(sub))
			id := shell.NormalizeAppID(name)
			if _, exists := apps[id]; exists {
				continue
			}

			app := shell.ApplicationInfo{
				Name:            name,
				Platform:        "windows",
				DiscoveryMethod: "app_paths_registry",
				RegistryKey:     rootPath + `\` + sub,
			}
			if _, statErr := os.Stat(exePath); statErr == nil {
				app.Executable = exePath
				app.InstallPath = filepath.Dir(exePath)
				app.Exists = true
			}
			apps[id] = app
		}
		key.Close()
	}
	return apps
}

func (w *windowsStrategy) scanClassesApplications(ctx context.Context) map[string]shell.ApplicationInfo {
	apps := make(map[string]shell.ApplicationInfo)

	key, err := winregistry.OpenKey(winregistry.CLASSES_ROOT, "Applications", winregistry.READ)
	if err != nil {
		log.Debug(log.CatDiscovery, "classes applications unreadable", "error", err)
		return apps
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return apps
	}
	for _, sub := range names {
		if !strings.HasSuffix(strings.ToLower(sub), ".exe") {
			continue
		}
		name := strings.TrimSuffix(sub, filepath.Ext(sub))
		id := shell.NormalizeAppID(name)
		if _, exists := apps[id]; exists {
			continue
		}
		apps[id] = shell.ApplicationInfo{
			Name:            name,
			Platform:        "windows",
			DiscoveryMethod: "classes_applications",
			RegistryKey:     `Applications\` + sub,
		}
	}
	return apps
}

// findMainExecutable resolves an application's main binary. The install
// directory is scanned first, then the icon path, then the directory of the
// uninstaller. Installer-looking names lose to anything else.
func findMainExecutable(installPath, iconPath, uninstallCommand string) string {
	if installPath != "" {
		if exe := findExecutableInDirectory(installPath); exe != "" {
			return exe
		}
	}

	icon := strings.TrimSpace(strings.Split(iconPath, ",")[0])
	icon = strings.Trim(icon, `"`)
	if strings.HasSuffix(strings.ToLower(icon), ".exe") {
		if _, err := os.Stat(icon); err == nil {
			return icon
		}
	}

	if uninstallCommand != "" {
		if uninstaller := extractExistingExecutable(uninstallCommand); uninstaller != "" {
			if exe := findExecutableInDirectory(filepath.Dir(uninstaller)); exe != "" {
				return exe
			}
		}
	}
	return ""
}

func findExecutableInDirectory(directory string) string {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return ""
	}

	var fallback string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".exe") {
			continue
		}
		if fallback == "" {
			fallback = filepath.Join(directory, entry.Name())
		}
		if !looksLikeInstaller(entry.Name()) {
			return filepath.Join(directory, entry.Name())
		}
	}
	return fallback
}

func looksLikeInstaller(name string) bool {
	lowered := strings.ToLower(name)
	for _, pattern := range installerNames {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// extractExistingExecutable pulls the leading executable out of a command
// string, returning "" unless the file exists on disk.
func extractExistingExecutable(command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return ""
	}

	exePath := command
	if strings.HasPrefix(command, `"`) {
		if end := strings.Index(command[1:], `"`); end != -1 {
			exePath = command[1 : end+1]
		}
	} else if fields := strings.Fields(command); len(fields) > 0 {
		exePath = fields[0]
	}

	exePath = strings.Trim(exePath, `'"`)
	exePath = detector.ExpandVars(exePath)
	if _, err := os.Stat(exePath); err == nil {
		return exePath
	}
	return ""
}
