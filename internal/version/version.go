// Package version holds the release version of the screenplot binary.
package version

import "fmt"

var (
	// Version is the semver release version.
	Version = "0.3.1"
	// DevVersion is the version used in dev and demo modes.
	DevVersion = "0.3.1"
)

func GetCurrentVersion(mode string) string {
	if mode == "prod" {
		return Version
	}
	return DevVersion
}

func GetMinorVersion(version string) string {
	for i, n := 0, 0; i < len(version); i++ {
		if version[i] == '.' {
			n++
			if n == 2 {
				return version[:i]
			}
		}
	}
	return version
}

func String(mode string) string {
	return fmt.Sprintf("screenplot/%s", GetCurrentVersion(mode))
}
