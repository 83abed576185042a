// Package config provides configuration types and defaults for twopane.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kmatyas/twopane/internal/log"
)

// Config holds all configuration options for twopane.
type Config struct {
	LeftDir     string          `mapstructure:"left_dir"`
	RightDir    string          `mapstructure:"right_dir"`
	AutoRefresh bool            `mapstructure:"auto_refresh"`
	UI          UIConfig        `mapstructure:"ui"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Discovery   DiscoveryConfig `mapstructure:"discovery"`
	Menu        MenuConfig      `mapstructure:"menu"`
	Detector    DetectorConfig  `mapstructure:"detector"`
	Flags       map[string]bool `mapstructure:"flags"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowHidden    bool   `mapstructure:"show_hidden"`     // Show dotfiles in panels
	ShowStatusBar bool   `mapstructure:"show_status_bar"` // Show status bar at bottom
	Theme         string `mapstructure:"theme"`           // "dark" (default) or "light"
}

// CacheConfig holds TTLs for the discovery caches. Zero values fall back to
// the defaults.
type CacheConfig struct {
	ExtensionTTL time.Duration `mapstructure:"extension_ttl"` // per-file context-menu entries
	DiscoveryTTL time.Duration `mapstructure:"discovery_ttl"` // full application/verb scan
}

// DiscoveryConfig controls the application discovery passes.
type DiscoveryConfig struct {
	// MaxTypeKeys bounds the file-type key enumeration pass so a huge
	// registration store cannot stall startup.
	MaxTypeKeys int `mapstructure:"max_type_keys"`

	// Denylist drops system components matched by substring against the
	// lowercased display name.
	Denylist []string `mapstructure:"denylist"`

	// SearchDirs are extra directories scanned for executables. {username}
	// expands to the current user.
	SearchDirs []string `mapstructure:"search_dirs"`
}

// MenuConfig holds the context-menu assembly tables. Every list matches
// case-insensitively.
type MenuConfig struct {
	// FilterPatterns drop entries whose text contains any pattern.
	FilterPatterns []string `mapstructure:"filter_patterns"`

	// FilterPrefixes drop entries whose text starts with any prefix.
	// Resource references ("@...") are resolved before this applies.
	FilterPrefixes []string `mapstructure:"filter_prefixes"`

	// BlockedCommands drop entries whose command contains any pattern.
	BlockedCommands []string `mapstructure:"blocked_commands"`

	// ResourceMappings translate localized resource references to display
	// text. An empty value drops the entry.
	ResourceMappings map[string]string `mapstructure:"resource_mappings"`

	// PriorityApps are text patterns promoted to the developer-tools band.
	PriorityApps []string `mapstructure:"priority_apps"`

	// MinTextLength drops entries with shorter display text.
	MinTextLength int `mapstructure:"min_text_length"`
}

// DetectorConfig holds application-detection tables.
type DetectorConfig struct {
	// Aliases maps a canonical application name to the alternate display
	// names it may be registered under.
	Aliases map[string][]string `mapstructure:"aliases"`

	// LookupTimeout bounds the PATH lookup subprocess.
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
}

// Default cache TTLs. Context-menu entries go stale faster than the full
// application scan; detector results only change on install/uninstall.
const (
	DefaultExtensionTTL = 30 * time.Minute
	DefaultDiscoveryTTL = time.Hour
	DefaultMaxTypeKeys  = 5000
	DefaultMinTextLen   = 2
	DefaultLookupWait   = 3 * time.Second
)

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoRefresh: true,
		UI: UIConfig{
			ShowHidden:    false,
			ShowStatusBar: true,
			Theme:         "dark",
		},
		Cache: CacheConfig{
			ExtensionTTL: DefaultExtensionTTL,
			DiscoveryTTL: DefaultDiscoveryTTL,
		},
		Discovery: DiscoveryConfig{
			MaxTypeKeys: DefaultMaxTypeKeys,
			Denylist: []string{
				"microsoft visual c++",
				".net",
				"update",
				"redistributable",
				"runtime",
				"hotfix",
			},
			SearchDirs: defaultSearchDirs(),
		},
		Menu: MenuConfig{
			FilterPatterns: []string{
				"wsl", "windows subsystem", "microsoft store",
				"debugger", "profiler", "analyzer",
			},
			FilterPrefixes:  []string{"@", "ms-"},
			BlockedCommands: []string{"wsl.exe", "ms-"},
			ResourceMappings: map[string]string{
				"@shell32.dll,-8506":  "Find",
				"@shell32.dll,-8508":  "Find",
				"@shell32.dll,-30315": "Send to",
				"@shell32.dll,-31374": "Copy",
				"@shell32.dll,-31375": "Cut",
				"@wsl.exe,-2":         "",
				"@shell32.dll,-10210": "",
				"@shell32.dll,-10211": "",
				"@shell32.dll,-31233": "",
			},
			PriorityApps: []string{
				"git gui", "git bash", "open with code", "open with sublime",
				"open powershell", "cmd", "command prompt",
			},
			MinTextLength: DefaultMinTextLen,
		},
		Detector: DetectorConfig{
			Aliases: map[string][]string{
				"sublime":    {"editor", "sublime text"},
				"mpc":        {"mpc-hc", "media", "media player classic"},
				"vlc":        {"vlc media player", "videolan"},
				"git":        {"git gui", "git bash"},
				"code":       {"visual studio code", "vs code"},
				"powershell": {"windows powershell", "pwsh"},
			},
			LookupTimeout: DefaultLookupWait,
		},
		Flags: map[string]bool{},
	}
}

// defaultSearchDirs returns the conventional application directories for
// the current platform. Windows paths carry a {username} placeholder that
// Normalized expands.
func defaultSearchDirs() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files`,
			`C:\Program Files (x86)`,
			`C:\Users\{username}\AppData\Local\Programs`,
			`C:\Users\{username}\AppData\Roaming`,
			`C:\ProgramData`,
			`C:\Tools`,
			`C:\Apps`,
		}
	case "darwin":
		dirs := []string{"/Applications", "/System/Applications"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, "Applications"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/applications", "/usr/local/share/applications"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
		}
		return dirs
	}
}

// ExpandSearchDirs replaces the {username} placeholder in each directory
// with the current user's name. Directories whose placeholder cannot be
// resolved are dropped rather than watched verbatim.
func ExpandSearchDirs(dirs []string) []string {
	name := currentUsername()
	expanded := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if strings.Contains(dir, "{username}") {
			if name == "" {
				log.Warn(log.CatConfig, "Dropping search dir, no current user", "dir", dir)
				continue
			}
			dir = strings.ReplaceAll(dir, "{username}", name)
		}
		expanded = append(expanded, dir)
	}
	return expanded
}

func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return os.Getenv("USERNAME")
	}
	name := u.Username
	// Windows reports DOMAIN\name.
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Validate checks configuration for errors. Empty values use defaults.
func Validate(cfg Config) error {
	if cfg.UI.Theme != "" && cfg.UI.Theme != "dark" && cfg.UI.Theme != "light" {
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", cfg.UI.Theme)
	}
	if cfg.Cache.ExtensionTTL < 0 {
		return fmt.Errorf("cache.extension_ttl must not be negative, got %v", cfg.Cache.ExtensionTTL)
	}
	if cfg.Cache.DiscoveryTTL < 0 {
		return fmt.Errorf("cache.discovery_ttl must not be negative, got %v", cfg.Cache.DiscoveryTTL)
	}
	if cfg.Discovery.MaxTypeKeys < 0 {
		return fmt.Errorf("discovery.max_type_keys must not be negative, got %d", cfg.Discovery.MaxTypeKeys)
	}
	if cfg.Menu.MinTextLength < 0 {
		return fmt.Errorf("menu.min_text_length must not be negative, got %d", cfg.Menu.MinTextLength)
	}
	for i, dir := range []string{cfg.LeftDir, cfg.RightDir} {
		if dir == "" {
			continue
		}
		if !filepath.IsAbs(dir) {
			side := [2]string{"left_dir", "right_dir"}[i]
			return fmt.Errorf("%s must be an absolute path, got %q", side, dir)
		}
	}
	return nil
}

// Normalized returns cfg with zero values replaced by defaults, so callers
// never have to re-check.
func Normalized(cfg Config) Config {
	def := Defaults()
	if cfg.Cache.ExtensionTTL == 0 {
		cfg.Cache.ExtensionTTL = def.Cache.ExtensionTTL
	}
	if cfg.Cache.DiscoveryTTL == 0 {
		cfg.Cache.DiscoveryTTL = def.Cache.DiscoveryTTL
	}
	if cfg.Discovery.MaxTypeKeys == 0 {
		cfg.Discovery.MaxTypeKeys = def.Discovery.MaxTypeKeys
	}
	if len(cfg.Discovery.Denylist) == 0 {
		cfg.Discovery.Denylist = def.Discovery.Denylist
	}
	if len(cfg.Discovery.SearchDirs) == 0 {
		cfg.Discovery.SearchDirs = def.Discovery.SearchDirs
	}
	cfg.Discovery.SearchDirs = ExpandSearchDirs(cfg.Discovery.SearchDirs)
	if len(cfg.Menu.FilterPatterns) == 0 {
		cfg.Menu.FilterPatterns = def.Menu.FilterPatterns
	}
	if len(cfg.Menu.FilterPrefixes) == 0 {
		cfg.Menu.FilterPrefixes = def.Menu.FilterPrefixes
	}
	if len(cfg.Menu.ResourceMappings) == 0 {
		cfg.Menu.ResourceMappings = def.Menu.ResourceMappings
	}
	if len(cfg.Menu.PriorityApps) == 0 {
		cfg.Menu.PriorityApps = def.Menu.PriorityApps
	}
	if cfg.Menu.MinTextLength == 0 {
		cfg.Menu.MinTextLength = def.Menu.MinTextLength
	}
	if len(cfg.Detector.Aliases) == 0 {
		cfg.Detector.Aliases = def.Detector.Aliases
	}
	if cfg.Detector.LookupTimeout == 0 {
		cfg.Detector.LookupTimeout = def.Detector.LookupTimeout
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	return cfg
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# twopane Configuration

# Starting directories for the two panels (default: home directory)
# left_dir: /path/to/dir
# right_dir: /path/to/dir

# Re-run discovery when watched application directories change
auto_refresh: true

# UI settings
ui:
  show_hidden: false     # Show dotfiles in panels
  show_status_bar: true  # Show status bar at bottom
  theme: dark            # "dark" (default) or "light"

# Cache lifetimes
cache:
  extension_ttl: 30m  # Per-file context-menu entries
  discovery_ttl: 1h   # Full application scan

# Application discovery
discovery:
  max_type_keys: 5000   # Bound on file-type key enumeration
  # denylist:           # Substrings that mark system components
  #   - microsoft visual c++
  #   - redistributable
  # search_dirs:        # Extra directories scanned for executables
  #   - C:\Tools

# Context-menu assembly
menu:
  min_text_length: 2
  # filter_patterns:    # Drop entries whose text contains any of these
  #   - wsl
  # blocked_commands:   # Drop entries whose command contains any of these
  #   - rundll32
  # priority_apps:      # Promote these into the developer-tools band
  #   - git bash

# Application detection
detector:
  lookup_timeout: 3s
  # aliases:
  #   code: ["visual studio code", "vs code"]

# Feature flags
# flags:
#   concurrent-scan: true
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// DefaultConfigPath returns ~/.config/twopane/config.yml, or empty string if
// the home dir is unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "twopane", "config.yml")
}
