// Package version reports the build version of the nest command.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/nestctl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/nestctl/internal/version.Commit=abc1234"
//
// Unset values come from the module's VCS build info, then fall back to "dev".
var (
	Version = ""
	Commit  = ""
)

func init() {
	resolve(readBuildSettings(), time.Now())
}

func readBuildSettings() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	return settings
}

// resolve fills Version and Commit from vcs.* build settings.
func resolve(settings map[string]string, now time.Time) {
	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}

	if Version == "" {
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = "dev-" + t.Format("20060102")
		} else {
			Version = "dev-" + now.Format("20060102-150405")
		}
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// Full returns the version including the commit, as printed by --version.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "nestctl/" + Version
}
