package detector

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kmatyas/twopane/internal/shell"
)

// Runner executes an external command and returns its stdout.
// This abstraction allows for easy testing with fake implementations.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// Compile-time check that execRunner implements Runner.
var _ Runner = execRunner{}

// execRunner implements Runner by executing actual commands.
type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	//nolint:gosec // G204: name comes from platform capabilities, not user input
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %s timed out", shell.ErrShellIntegration, name)
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("%w: %s: %s", shell.ErrShellIntegration, name, stderrStr)
		}
		return "", fmt.Errorf("%w: %s: %v", shell.ErrShellIntegration, name, err)
	}

	return stdout.String(), nil
}
