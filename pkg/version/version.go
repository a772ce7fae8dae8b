// Package version holds build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is the release version of the ordstat binary.
var Version = "dev"

// BinaryGitHash is the Git hash of the ordstat binary which is executing.
var BinaryGitHash = "<unknown>"

// String renders the version line printed by the version command.
func String() string {
	return fmt.Sprintf("ordstat %s (%s, %s)", Version, BinaryGitHash, goVersion())
}

func goVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown go"
	}

	return info.GoVersion
}
