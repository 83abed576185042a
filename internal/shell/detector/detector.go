// Package detector resolves application identifiers and raw verb commands to
// executables on disk, and classifies executables into menu categories.
package detector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kmatyas/twopane/internal/cachemanager"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/platform"
	"github.com/kmatyas/twopane/internal/shell"
)

// Index supplies the discovered applications. Implemented by the discovery
// service; a nil Index limits resolution to the PATH lookup.
type Index interface {
	Applications(ctx context.Context) (map[string]shell.ApplicationInfo, error)
}

// Detector resolves identifiers through the discovery index, configured
// aliases, and finally the system PATH. Resolved paths are cached without
// expiration; installs and uninstalls require an explicit ClearCache.
type Detector struct {
	index    Index
	aliases  map[string][]string
	runner   Runner
	platform platform.Info
	timeout  time.Duration
	cache    cachemanager.CacheManager[string, string]
}

// Option configures a Detector.
type Option func(*Detector)

// WithRunner replaces the subprocess runner, for tests.
func WithRunner(r Runner) Option {
	return func(d *Detector) { d.runner = r }
}

// WithPlatform overrides the platform capabilities, for tests.
func WithPlatform(p platform.Info) Option {
	return func(d *Detector) { d.platform = p }
}

func New(index Index, aliases map[string][]string, timeout time.Duration, opts ...Option) *Detector {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	d := &Detector{
		index:    index,
		aliases:  aliases,
		runner:   execRunner{},
		platform: platform.Current(),
		timeout:  timeout,
		cache:    cachemanager.NewInMemoryCacheManager[string, string]("detector", gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve maps an application identifier to an executable path. Lookup order
// is the discovery index, then configured aliases back into the index, then
// the system PATH. Returns "" and false when nothing matches.
func (d *Detector) Resolve(ctx context.Context, identifier string) (string, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", false
	}

	key := "resolve:" + strings.ToLower(identifier)
	if cached, ok := d.cache.Get(ctx, key); ok {
		return cached, cached != ""
	}

	path := d.resolveUncached(ctx, identifier)
	d.cache.Set(ctx, key, path, gocache.NoExpiration)
	return path, path != ""
}

func (d *Detector) resolveUncached(ctx context.Context, identifier string) string {
	apps := d.applications(ctx)

	if path := lookupApp(apps, identifier); path != "" {
		return path
	}

	// An identifier matching an alias resolves through its canonical name.
	lowered := strings.ToLower(identifier)
	for canonical, aliases := range d.aliases {
		for _, alias := range aliases {
			if strings.ToLower(alias) == lowered {
				if path := lookupApp(apps, canonical); path != "" {
					return path
				}
			}
		}
	}

	if path, ok := d.findInPath(ctx, identifier); ok {
		return path
	}
	return ""
}

// ExtractExecutable pulls the executable path out of a raw verb command.
// Quoted paths keep embedded spaces; environment variables in both %VAR%
// and $VAR form are expanded. When the extracted path does not exist the
// basename is retried through the PATH. Returns "" when nothing resolves.
func (d *Detector) ExtractExecutable(ctx context.Context, command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return ""
	}

	key := "extract:" + strings.ToLower(command)
	if cached, ok := d.cache.Get(ctx, key); ok {
		return cached
	}

	exePath := firstToken(command)
	exePath = strings.Trim(exePath, `'"`)
	exePath = ExpandVars(exePath)

	result := ""
	if _, err := os.Stat(exePath); err == nil {
		result = exePath
	} else if path, ok := d.findInPath(ctx, filepath.Base(exePath)); ok {
		result = path
	}

	d.cache.Set(ctx, key, result, gocache.NoExpiration)
	return result
}

// Categorize classifies an executable by its name, path, and menu text.
func (d *Detector) Categorize(exePath, displayText string) shell.Category {
	exeName := strings.ToLower(filepath.Base(exePath))
	pathLower := strings.ToLower(exePath)
	textLower := strings.ToLower(displayText)

	matches := func(terms ...string) bool {
		for _, term := range terms {
			if strings.Contains(exeName, term) || strings.Contains(textLower, term) {
				return true
			}
		}
		return false
	}

	switch {
	case matches("code", "visual studio", "sublime", "notepad++", "atom", "vim"):
		return shell.CategoryEditor
	case matches("git", "svn", "mercurial", "tortoise"):
		return shell.CategoryVersionControl
	case matches("vlc", "mpc", "media player", "winamp", "foobar"):
		return shell.CategoryMedia
	case matches("winrar", "7zip", "zip", "rar"):
		return shell.CategoryCompression
	}

	// System tools match on the path too, so anything under the OS tree
	// classifies even with a generic name.
	for _, term := range []string{"system32", "windows", "cmd", "powershell"} {
		if strings.Contains(exeName, term) || strings.Contains(pathLower, term) {
			return shell.CategorySystem
		}
	}

	return shell.CategoryApplication
}

// AppsByCategory returns the indexed applications whose executables classify
// into the given category, keyed by normalized name.
func (d *Detector) AppsByCategory(ctx context.Context, category shell.Category) map[string]shell.ApplicationInfo {
	matched := make(map[string]shell.ApplicationInfo)
	for id, app := range d.applications(ctx) {
		if app.Executable == "" {
			continue
		}
		if d.Categorize(app.Executable, app.Name) == category {
			matched[id] = app
		}
	}
	return matched
}

// IsSystemApplication reports whether the executable lives under an OS
// directory.
func (d *Detector) IsSystemApplication(exePath string) bool {
	pathLower := strings.ToLower(filepath.ToSlash(exePath))
	systemPrefixes := []string{
		"c:/windows/system32",
		"c:/windows/syswow64",
		"c:/windows",
		"c:/program files/windows",
		"/usr/sbin",
		"/sbin",
		"/system/library",
	}
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(pathLower, prefix) {
			return true
		}
	}
	return false
}

// ClearCache drops every memoized resolution.
func (d *Detector) ClearCache(ctx context.Context) error {
	log.Debug(log.CatDetector, "detector cache cleared")
	return d.cache.Flush(ctx)
}

// Stats reports resolution-cache diagnostics.
func (d *Detector) Stats() shell.CacheStats {
	return d.cache.Stats()
}

func (d *Detector) applications(ctx context.Context) map[string]shell.ApplicationInfo {
	if d.index == nil {
		return nil
	}
	apps, err := d.index.Applications(ctx)
	if err != nil {
		log.ErrorErr(log.CatDetector, "application index unavailable", err)
		return nil
	}
	return apps
}

// findInPath shells out to where/which with a bounded context. A timeout or
// lookup failure is treated as not found.
func (d *Detector) findInPath(ctx context.Context, executable string) (string, bool) {
	if executable == "" {
		return "", false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	output, err := d.runner.Output(lookupCtx, d.platform.PathLookupCommand, executable)
	if err != nil {
		log.Debug(log.CatDetector, "path lookup failed", "executable", executable, "error", err)
		return "", false
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return "", false
	}
	path := strings.TrimSpace(lines[0])
	if path == "" {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func lookupApp(apps map[string]shell.ApplicationInfo, identifier string) string {
	if apps == nil {
		return ""
	}
	app, ok := apps[shell.NormalizeAppID(identifier)]
	if !ok || !app.Exists || app.Executable == "" {
		return ""
	}
	return app.Executable
}

// firstToken returns the leading quoted segment, or the first
// whitespace-delimited word.
func firstToken(command string) string {
	if strings.HasPrefix(command, `"`) {
		if end := strings.Index(command[1:], `"`); end != -1 {
			return command[1 : end+1]
		}
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ExpandVars expands both %VAR% (Windows) and $VAR/${VAR} (POSIX) references
// against the process environment. Unmatched %...% text is left as-is.
func ExpandVars(s string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '%')
		if start == -1 {
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end == -1 {
			break
		}
		name := s[start+1 : start+1+end]
		value, ok := os.LookupEnv(name)
		if !ok {
			// Keep the literal text but move past the opening marker so a
			// stray percent cannot loop forever.
			b.WriteString(s[:start+1])
			s = s[start+1:]
			continue
		}
		b.WriteString(s[:start])
		b.WriteString(value)
		s = s[start+2+end:]
	}
	b.WriteString(s)
	return os.ExpandEnv(b.String())
}
