// Package platform exposes the per-OS capabilities the shell-integration
// pipeline branches on. The values are fixed at build time through build
// tags, so callers can branch without sprinkling runtime.GOOS checks.
package platform

import "math/bits"

// Info describes the capabilities of the running platform.
type Info struct {
	// Name is the GOOS-style platform name.
	Name string

	// SupportsRegistry reports whether a native registry hive backs
	// file-type lookups. Only true on Windows.
	SupportsRegistry bool

	// Is64Bit reports whether the binary runs with a 64-bit word size.
	// On Windows a 64-bit process sees both the native and the
	// WOW6432Node registry views.
	Is64Bit bool

	// ExecutableExtension is appended when probing for executables
	// (".exe" on Windows, empty elsewhere).
	ExecutableExtension string

	// DefaultShell is the command interpreter used to hand a target to
	// the operating system ("cmd.exe" on Windows, "/bin/sh" elsewhere).
	DefaultShell string

	// PathLookupCommand resolves a command name to an absolute path
	// ("where" on Windows, "which" elsewhere).
	PathLookupCommand string
}

// Current returns the capability description for the platform this binary
// was built for.
func Current() Info {
	info := current
	info.Is64Bit = bits.UintSize == 64
	return info
}
