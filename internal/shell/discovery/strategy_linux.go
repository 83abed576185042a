//go:build linux

package discovery

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/shell"
	shellregistry "github.com/kmatyas/twopane/internal/shell/registry"
)

// linuxStrategy reads freedesktop .desktop files. Applications come from
// the XDG application directories; context menus come from each entry's
// MimeType declarations, keyed by mime type.
type linuxStrategy struct{}

func NewStrategy(reader shellregistry.Reader, cfg config.DiscoveryConfig) Strategy {
	return &linuxStrategy{}
}

func (l *linuxStrategy) Name() string { return "linux-desktop-files" }

func applicationDirs() []string {
	dirs := []string{
		"/usr/share/applications",
		"/usr/local/share/applications",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	if extra := os.Getenv("XDG_DATA_DIRS"); extra != "" {
		for _, dir := range strings.Split(extra, ":") {
			if dir != "" {
				dirs = append(dirs, filepath.Join(dir, "applications"))
			}
		}
	}
	return dirs
}

func (l *linuxStrategy) DiscoverApplications(ctx context.Context) (map[string]shell.ApplicationInfo, error) {
	apps := make(map[string]shell.ApplicationInfo)
	readable := 0

	for _, dir := range applicationDirs() {
		files, err := os.ReadDir(dir)
		if err != nil {
			log.Debug(log.CatDiscovery, "application dir unreadable", "dir", dir, "error", err)
			continue
		}
		readable++
		for _, file := range files {
			if ctx.Err() != nil {
				return apps, nil
			}
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".desktop") {
				continue
			}
			entry, ok := parseDesktopFile(filepath.Join(dir, file.Name()))
			if !ok {
				continue
			}
			id := shell.NormalizeAppID(entry.Name)
			if _, exists := apps[id]; exists {
				continue
			}
			apps[id] = entry.toApplicationInfo()
		}
	}

	if readable == 0 {
		return nil, fmt.Errorf("%w: no application directories readable", shell.ErrRegistryAccess)
	}
	return apps, nil
}

func (l *linuxStrategy) DiscoverContextMenus(ctx context.Context) (map[string][]shell.ExtensionEntry, error) {
	menus := make(map[string][]shell.ExtensionEntry)

	for _, dir := range applicationDirs() {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if ctx.Err() != nil {
				return menus, nil
			}
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".desktop") {
				continue
			}
			path := filepath.Join(dir, file.Name())
			entry, ok := parseDesktopFile(path)
			if !ok || entry.Exec == "" {
				continue
			}

			menuEntry := shell.ExtensionEntry{
				Text:         "Open with " + entry.Name,
				Command:      stripFieldCodes(entry.Exec),
				Action:       "open_with_" + shell.NormalizeAppID(entry.Name),
				RegistryPath: path,
				Executable:   resolveExec(entry.Exec),
			}

			for _, mimeType := range entry.MimeTypes {
				menus[mimeType] = append(menus[mimeType], menuEntry)
			}

			// File managers and terminals act on directories.
			if entry.hasCategory("FileManager") || entry.hasCategory("TerminalEmulator") {
				dirEntry := menuEntry
				dirEntry.Text = "Open in " + entry.Name
				dirEntry.Action = "open_in_" + shell.NormalizeAppID(entry.Name)
				menus["Directory"] = append(menus["Directory"], dirEntry)
			}
		}
	}

	for _, entry := range desktopEnvironmentEntries() {
		menus["Directory"] = append(menus["Directory"], entry)
	}
	return menus, nil
}

// desktopEnvironmentEntries synthesizes universal directory verbs for the
// running desktop environment's file manager and terminal, when those
// binaries exist on PATH.
func desktopEnvironmentEntries() []shell.ExtensionEntry {
	fileManager, terminal := desktopEnvironmentTools()

	var entries []shell.ExtensionEntry
	if exe := resolveExec(fileManager); exe != "" {
		entries = append(entries, shell.ExtensionEntry{
			Text:       "Open in file manager",
			Command:    fileManager,
			Action:     "open_file_manager",
			Executable: exe,
		})
	}
	if exe := resolveExec(terminal); exe != "" {
		entries = append(entries, shell.ExtensionEntry{
			Text:       "Open terminal here",
			Command:    terminal,
			Action:     "open_terminal",
			Executable: exe,
		})
	}
	return entries
}

// desktopEnvironmentTools maps the current desktop environment to its file
// manager and terminal emulator. Unknown environments fall back to the
// common freedesktop pair.
func desktopEnvironmentTools() (fileManager, terminal string) {
	session := strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP"))
	if session == "" {
		session = strings.ToLower(os.Getenv("DESKTOP_SESSION"))
	}

	switch {
	case strings.Contains(session, "gnome"), strings.Contains(session, "unity"):
		return "nautilus", "gnome-terminal"
	case strings.Contains(session, "kde"), strings.Contains(session, "plasma"):
		return "dolphin", "konsole"
	case strings.Contains(session, "xfce"):
		return "thunar", "xfce4-terminal"
	case strings.Contains(session, "mate"):
		return "caja", "mate-terminal"
	case strings.Contains(session, "cinnamon"):
		return "nemo", "gnome-terminal"
	case strings.Contains(session, "lxde"), strings.Contains(session, "lxqt"):
		return "pcmanfm", "lxterminal"
	default:
		return "xdg-open", "x-terminal-emulator"
	}
}

type desktopEntry struct {
	Name       string
	Exec       string
	Icon       string
	Comment    string
	Path       string
	MimeTypes  []string
	Categories []string
}

func (e desktopEntry) hasCategory(category string) bool {
	for _, c := range e.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (e desktopEntry) toApplicationInfo() shell.ApplicationInfo {
	info := shell.ApplicationInfo{
		Name:            e.Name,
		Icon:            e.Icon,
		Description:     e.Comment,
		Platform:        "linux",
		DiscoveryMethod: "desktop_files",
		DesktopFile:     e.Path,
	}
	if exe := resolveExec(e.Exec); exe != "" {
		info.Executable = exe
		info.InstallPath = filepath.Dir(exe)
		info.Exists = true
	}
	return info
}

// parseDesktopFile reads the [Desktop Entry] section. Hidden entries and
// non-application types report ok=false.
func parseDesktopFile(path string) (desktopEntry, bool) {
	file, err := os.Open(path) //nolint:gosec // G304: paths come from XDG directories
	if err != nil {
		return desktopEntry{}, false
	}
	defer file.Close()

	entry := desktopEntry{Path: path}
	inDesktopEntry := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "[Desktop Entry]" {
			inDesktopEntry = true
			continue
		}
		if strings.HasPrefix(line, "[") {
			inDesktopEntry = false
			continue
		}
		if !inDesktopEntry {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Name="):
			if entry.Name == "" {
				entry.Name = strings.TrimPrefix(line, "Name=")
			}
		case strings.HasPrefix(line, "Exec="):
			entry.Exec = strings.TrimPrefix(line, "Exec=")
		case strings.HasPrefix(line, "Icon="):
			entry.Icon = strings.TrimPrefix(line, "Icon=")
		case strings.HasPrefix(line, "Comment="):
			entry.Comment = strings.TrimPrefix(line, "Comment=")
		case strings.HasPrefix(line, "MimeType="):
			entry.MimeTypes = splitList(strings.TrimPrefix(line, "MimeType="))
		case strings.HasPrefix(line, "Categories="):
			entry.Categories = splitList(strings.TrimPrefix(line, "Categories="))
		case line == "NoDisplay=true", line == "Hidden=true":
			return desktopEntry{}, false
		case strings.HasPrefix(line, "Type=") && strings.TrimPrefix(line, "Type=") != "Application":
			return desktopEntry{}, false
		}
	}

	if entry.Name == "" {
		return desktopEntry{}, false
	}
	return entry, true
}

func splitList(value string) []string {
	parts := strings.Split(value, ";")
	result := parts[:0]
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// stripFieldCodes removes the %f/%u style placeholders from an Exec line.
func stripFieldCodes(exec string) string {
	fields := strings.Fields(exec)
	kept := fields[:0]
	for _, f := range fields {
		if len(f) == 2 && f[0] == '%' {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// resolveExec finds the Exec line's binary on disk. Bare names are searched
// along PATH; absolute paths are checked directly.
func resolveExec(exec string) string {
	fields := strings.Fields(exec)
	if len(fields) == 0 {
		return ""
	}
	binary := fields[0]

	if filepath.IsAbs(binary) {
		if _, err := os.Stat(binary); err == nil {
			return binary
		}
		return ""
	}
	for _, dir := range strings.Split(os.Getenv("PATH"), ":") {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, binary)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
