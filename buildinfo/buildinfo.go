/*
   Copyright 2026 The zls-releases Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package buildinfo exposes this service's own release version, stamped in
// by the release pipeline via -ldflags. It has nothing to do with the
// ZLS/Zig version dialect in relcore/model/version: the service's own
// version is ordinary SemVer 2.0.0, so it gets a different library.
package buildinfo

import (
	"fmt"

	"github.com/blang/semver/v4"
)

// Version is overwritten at build time via:
//
//	-ldflags "-X github.com/zigtools/zls-releases/buildinfo.Version=1.4.0"
//
// "dev" is the value a plain `go build` (or `go run`) produces, and is not
// valid SemVer; Parsed reports that rather than panicking.
var Version = "dev"

// Commit is the short commit hash the build was produced from, set the
// same way as Version. Empty when unset.
var Commit string

// Parsed returns Version as a semver.Version, or ok == false if Version is
// "dev" or otherwise not valid SemVer (a build that skipped -ldflags).
func Parsed() (v semver.Version, ok bool) {
	parsed, err := semver.Parse(Version)
	if err != nil {
		return semver.Version{}, false
	}
	return parsed, true
}

// String renders a human-readable identifier for logs and the version
// command: "1.4.0 (abcdef1)", or just "dev" when unstamped.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
