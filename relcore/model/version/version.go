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

// Package version implements the project's semver dialect: a tagged release
// "MAJOR.MINOR.PATCH", or a development build
// "MAJOR.MINOR.PATCH-dev.HEIGHT+COMMITID". Both ZLS and Zig versions use
// this same dialect, which is why one type serves both in the rest of
// relcore.
//
// The dialect happens to be a strict subset of SemVer 2.0.0: "dev.HEIGHT" is
// a valid prerelease identifier sequence and "COMMITID" is valid build
// metadata. That means the dialect's ordering rules - a tagged version
// outranks a development version with the same (major, minor, patch), two
// development versions order by commit height, and the commit id never
// affects order - are exactly SemVer 2.0.0 precedence rules applied to this
// restricted grammar. Version.Compare exploits that by delegating to
// golang.org/x/mod/semver instead of reimplementing precedence by hand.
package version

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Compile-time check that Version implements model.Model.
var _ model.Model = (*Version)(nil)

// maxSafeInt bounds the numeric fields (Major, Minor, Patch, CommitHeight).
// The release store round-trips these records through JSON to clients
// written in languages without an arbitrary-precision integer type, so
// parsing rejects anything a float64 could not represent exactly.
const maxSafeInt = 1<<53 - 1

// grammar matches "MAJOR.MINOR.PATCH" or
// "MAJOR.MINOR.PATCH-dev.HEIGHT+COMMITID" exactly; no "v" prefix, no
// arbitrary prerelease/build metadata.
var grammar = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-dev\.(\d+)\+([0-9a-f]{7,9}))?$`)

// Version is a parsed ZLS or Zig version in the project's dialect.
//
// The zero Version is "0.0.0", a tagged release; it is a valid value but
// rarely a meaningful one, since every real Zig and ZLS release starts at
// 0.1.0 or later.
type Version struct {
	Major, Minor, Patch int

	// Dev is true for development builds. When false, CommitHeight and
	// CommitID are zero/empty and ignored.
	Dev bool

	// CommitHeight orders development builds that share the same
	// (Major, Minor, Patch). Present only when Dev is true.
	CommitHeight int

	// CommitID is the 7-9 hex character short commit hash. It never
	// participates in ordering; it exists purely to disambiguate builds
	// for humans and for I7's conflicting-commit check. Present only
	// when Dev is true.
	CommitID string
}

// Parse parses s per the dialect grammar. It returns a *relerrors.ParseError
// when s does not match the grammar, when a numeric field exceeds
// maxSafeInt, or when the commit id is not 7-9 lower hex characters (the
// regexp enforces both the character class and the length bounds).
func Parse(s string) (Version, error) {
	m := grammar.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &relerrors.ParseError{Type: "Version", Value: s}
	}

	major, err := parseSafeInt(m[1])
	if err != nil {
		return Version{}, &relerrors.ParseError{Type: "Version", Value: s}
	}
	minor, err := parseSafeInt(m[2])
	if err != nil {
		return Version{}, &relerrors.ParseError{Type: "Version", Value: s}
	}
	patch, err := parseSafeInt(m[3])
	if err != nil {
		return Version{}, &relerrors.ParseError{Type: "Version", Value: s}
	}

	v := Version{Major: major, Minor: minor, Patch: patch}

	if m[4] != "" {
		height, err := parseSafeInt(m[4])
		if err != nil {
			return Version{}, &relerrors.ParseError{Type: "Version", Value: s}
		}
		v.Dev = true
		v.CommitHeight = height
		v.CommitID = m[5]
	}

	return v, nil
}

func parseSafeInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 || n > maxSafeInt {
		return 0, fmt.Errorf("out of range")
	}
	return int(n), nil
}

// IsTagged reports whether v has no development suffix.
func (v Version) IsTagged() bool {
	return !v.Dev
}

// String renders v in canonical dialect form. String always succeeds, even
// for a Version built by hand with out-of-grammar fields (for example a
// negative Major set via a struct literal); Validate is what rejects those.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Dev {
		s += fmt.Sprintf("-dev.%d+%s", v.CommitHeight, v.CommitID)
	}
	return s
}

// canonical renders v as a "v"-prefixed string suitable for
// golang.org/x/mod/semver, which requires the "v" prefix on every input.
func (v Version) canonical() string {
	return "v" + v.String()
}

// Validate checks that v's fields are in range and, for development builds,
// that CommitID has the expected shape. A Version obtained from Parse is
// always valid; Validate exists for values built by hand (tests, decoded
// from a store row without going through Parse) or mutated after parsing.
func (v Version) Validate() error {
	if v.Major < 0 || v.Major > maxSafeInt {
		return &relerrors.ValidationError{Type: "Version", Field: "Major", Reason: "out of range"}
	}
	if v.Minor < 0 || v.Minor > maxSafeInt {
		return &relerrors.ValidationError{Type: "Version", Field: "Minor", Reason: "out of range"}
	}
	if v.Patch < 0 || v.Patch > maxSafeInt {
		return &relerrors.ValidationError{Type: "Version", Field: "Patch", Reason: "out of range"}
	}
	if !v.Dev {
		return nil
	}
	if v.CommitHeight < 0 || v.CommitHeight > maxSafeInt {
		return &relerrors.ValidationError{Type: "Version", Field: "CommitHeight", Reason: "out of range"}
	}
	if len(v.CommitID) < 7 || len(v.CommitID) > 9 {
		return &relerrors.ValidationError{Type: "Version", Field: "CommitID", Reason: "must be 7-9 hex characters"}
	}
	for _, r := range v.CommitID {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return &relerrors.ValidationError{Type: "Version", Field: "CommitID", Reason: "must be lowercase hex"}
		}
	}
	return nil
}

// Compare returns -1, 0 or +1 as v is less than, equal to, or greater than
// other, per the dialect's precedence rules (see the package doc comment).
func (v Version) Compare(other Version) int {
	return semver.Compare(v.canonical(), other.canonical())
}

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Greater reports whether v orders strictly after other.
func (v Version) Greater(other Version) bool { return v.Compare(other) > 0 }

// Equal reports whether v and other have the same precedence. Note that two
// development versions with the same (Major, Minor, CommitHeight) but
// different CommitID compare Equal, since CommitID never affects ordering;
// I7 is what prevents two such versions from coexisting in the store.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Max returns whichever of a and b orders last.
func Max(a, b Version) Version {
	if a.Less(b) {
		return b
	}
	return a
}

// IsZero reports whether v is the zero Version, "0.0.0".
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0 && !v.Dev
}

// TypeName implements model.Identifiable.
func (v Version) TypeName() string { return "Version" }

// Redacted implements model.Loggable. Versions carry no sensitive data, so
// it is identical to String.
func (v Version) Redacted() string { return v.String() }

// MarshalJSON implements json.Marshaler, encoding v as its canonical string.
func (v Version) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &relerrors.UnmarshalError{Type: "Version", Data: data, Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Version) MarshalYAML() (any, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &relerrors.UnmarshalError{Type: "Version", Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
