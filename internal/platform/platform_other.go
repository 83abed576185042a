//go:build !windows && !linux && !darwin

package platform

import "runtime"

var current = Info{
	Name:              runtime.GOOS,
	DefaultShell:      "/bin/sh",
	PathLookupCommand: "which",
}
