// Package version decides enhancer applicability by matching a target version
// against a semantic-version range.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Common ranges shared by enhancers.
const (
	V2 = "2.x"
	// V3OrGreater gates enhancers that apply to every modern technology version.
	V3OrGreater = ">=3.0.0"
	V7OrGreater = ">=7.0.0"
)

// Satisfies reports whether version is inside versionRange. Ranges accept x
// wildcards ("2.x", "3.1.x"), comparison operators (">=3.1.0 <4.0.0") and ||
// unions. An unparsable version or range never matches.
func Satisfies(version, versionRange string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(versionRange)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// IsValid reports whether version parses as a semantic version.
func IsValid(version string) bool {
	_, err := semver.NewVersion(version)
	return err == nil
}

// IsValidRange reports whether versionRange parses as a range.
func IsValidRange(versionRange string) bool {
	_, err := semver.NewConstraint(versionRange)
	return err == nil
}
