//go:build linux

package platform

var current = Info{
	Name:              "linux",
	DefaultShell:      "/bin/sh",
	PathLookupCommand: "which",
}
