// Package version reports build information for thumbsprite.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the release version, set via ldflags.
	Version string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the VCS revision, read from the build info.
	Revision = revision(debug.ReadBuildInfo)
)

// String returns a single-line summary of the build suitable for
// `thumbsprite --version`.
func String() string {
	return format(Version, Revision, BuildDate)
}

func format(ver, rev, date string) string {
	if ver == "" {
		ver = "devel"
	}

	parts := []string{ver, "rev " + rev}
	if date != "" {
		parts = append(parts, "built "+date)
	}

	return fmt.Sprintf("%s (%s, %s %s/%s)",
		parts[0], strings.Join(parts[1:], ", "), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func revision(read func() (*debug.BuildInfo, bool)) string {
	rev := "unknown"

	info, ok := read()
	if !ok {
		return rev
	}

	modified := false

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
