// Package launcher starts external programs for menu actions: registered
// verb commands, "open with" selections, and the platform default-open verb.
package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/platform"
	"github.com/kmatyas/twopane/internal/shell"
)

// Launcher invokes programs on behalf of the UI.
type Launcher interface {
	// RunCommand substitutes the target into a registered verb command and
	// starts it detached.
	RunCommand(ctx context.Context, command, target string) error

	// RunApplication starts an executable with the target as its argument.
	RunApplication(ctx context.Context, executable, target string) error

	// OpenDefault opens the target with the platform's default handler.
	OpenDefault(ctx context.Context, target string) error
}

// Compile-time check that RealLauncher implements Launcher.
var _ Launcher = (*RealLauncher)(nil)

// RealLauncher starts real processes, detached from the TUI.
type RealLauncher struct {
	platform platform.Info
	start    func(ctx context.Context, name string, args ...string) error
}

// NewRealLauncher creates a launcher for the current platform.
func NewRealLauncher() *RealLauncher {
	return &RealLauncher{
		platform: platform.Current(),
		start:    startDetached,
	}
}

func startDetached(ctx context.Context, name string, args ...string) error {
	//nolint:gosec // G204: commands come from the user's own shell registrations
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: starting %s: %v", shell.ErrShellIntegration, name, err)
	}
	// Reap the child in the background so it never turns into a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// RunCommand substitutes the target for the %1/%V placeholders (appending it
// when the command has none) and starts the program.
func (l *RealLauncher) RunCommand(ctx context.Context, command, target string) error {
	name, args, err := SplitCommand(SubstituteTarget(command, target))
	if err != nil {
		return err
	}
	log.Info(log.CatMenu, "running verb command", "executable", name, "target", target)
	return l.start(ctx, name, args...)
}

// RunApplication starts an executable with the target as its only argument.
func (l *RealLauncher) RunApplication(ctx context.Context, executable, target string) error {
	if strings.TrimSpace(executable) == "" {
		return fmt.Errorf("%w: empty executable", shell.ErrValidation)
	}
	log.Info(log.CatMenu, "running application", "executable", executable, "target", target)
	return l.start(ctx, executable, target)
}

// OpenDefault opens the target with the platform's default handler.
func (l *RealLauncher) OpenDefault(ctx context.Context, target string) error {
	switch l.platform.Name {
	case "windows":
		return l.start(ctx, l.platform.DefaultShell, "/c", "start", "", target)
	case "darwin":
		return l.start(ctx, "open", target)
	default:
		return l.start(ctx, "xdg-open", target)
	}
}

// SubstituteTarget replaces the registry placeholder tokens with the target
// path. Commands without a placeholder get the quoted target appended.
func SubstituteTarget(command, target string) string {
	substituted := false
	for _, placeholder := range []string{"%1", "%V", "%L", "%v", "%l"} {
		if strings.Contains(command, placeholder) {
			command = strings.ReplaceAll(command, placeholder, target)
			substituted = true
		}
	}
	if !substituted {
		command = command + ` "` + target + `"`
	}
	return command
}

// SplitCommand tokenizes a shell-invocation string honoring double-quoted
// segments, so quoted paths with spaces stay one token.
func SplitCommand(command string) (name string, args []string, err error) {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range command {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	if len(tokens) == 0 {
		return "", nil, fmt.Errorf("%w: empty command", shell.ErrValidation)
	}
	return tokens[0], tokens[1:], nil
}
