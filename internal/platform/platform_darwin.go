//go:build darwin

package platform

var current = Info{
	Name:              "darwin",
	DefaultShell:      "/bin/sh",
	PathLookupCommand: "which",
}
