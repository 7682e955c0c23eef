package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set via -ldflags "-X github.com/holoplot/clockcast/internal/version.Version=..."
var (
	Version   = ""
	GitCommit = ""
	BuildDate = "" // 2025-09-11_13:47:21_UTC
	GoVersion = runtime.Version()
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
}

func known(s string) bool {
	return s != "" && s != "unknown"
}

// Get returns the build information with unset fields normalised.
func Get() Info {
	info := Info{
		Version:   "unknown",
		GoVersion: GoVersion,
	}

	if known(Version) {
		info.Version = Version
	}

	if known(GitCommit) {
		info.GitCommit = GitCommit
	}

	if known(BuildDate) {
		info.BuildDate = BuildDate

		// 2025-09-11_13:47:21_UTC reads as "2025-09-11 13:47:21 UTC"
		if len(BuildDate) >= 21 && BuildDate[10] == '_' && BuildDate[19] == '_' {
			info.BuildDate = fmt.Sprintf("%s %s %s", BuildDate[:10], BuildDate[11:19], BuildDate[20:])
		}
	}

	return info
}

func (i Info) String() string {
	var parts []string

	if i.GitCommit != "" {
		parts = append(parts, fmt.Sprintf("commit: %.7s", i.GitCommit))
	}

	if i.BuildDate != "" {
		parts = append(parts, "built: "+i.BuildDate)
	}

	parts = append(parts, "go: "+i.GoVersion)

	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(parts, ", "))
}
