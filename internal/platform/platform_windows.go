//go:build windows

package platform

var current = Info{
	Name:                "windows",
	SupportsRegistry:    true,
	ExecutableExtension: ".exe",
	DefaultShell:        "cmd.exe",
	PathLookupCommand:   "where",
}
