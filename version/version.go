// Package version carries the tool's version number and the license
// listing printed by the --license flag.
package version

import "fmt"

// Version is a semantic version number.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Current returns the version of this build.
func Current() Version {
	return Version{Major: 0, Minor: 1, Patch: 0}
}
