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

package release

import (
	"encoding/json"

	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model"
	"gopkg.in/yaml.v3"
)

// Compile-time check that FailureCode implements model.Model.
var _ model.Model = FailureCode(0)

// FailureCode classifies why version selection could not produce a usable
// ZLS build. The selector returns these as ordinary 200 responses (see the
// HTTP surface) rather than as request errors: a client asking "which ZLS
// build should I use" with an unsupported Zig version got a well-formed
// answer, just not a helpful one.
type FailureCode int

const (
	// Unsupported means the requested Zig version is older than the
	// runtime floor of the oldest record the selector could fall back to.
	Unsupported FailureCode = iota

	// DevelopmentBuildUnsupported means no development build of the
	// requested release cycle can serve the request: either there is none
	// (and no tagged release to fall back to), or the oldest one requires a
	// newer Zig than the one requested.
	DevelopmentBuildUnsupported

	// DevelopmentBuildIncompatible means a development build applies by
	// version range but the requested compatibility level was not met.
	DevelopmentBuildIncompatible

	// TaggedReleaseIncompatible means no tagged ZLS release exists yet for
	// the requested tagged Zig version's (major, minor), and that Zig
	// version is not below the oldest tagged release's runtime floor.
	TaggedReleaseIncompatible
)

// failureCodeNames is indexed by FailureCode; keep in lockstep with the
// const block above.
var failureCodeNames = [...]string{
	Unsupported:                  "unsupported",
	DevelopmentBuildUnsupported:  "development-build-unsupported",
	DevelopmentBuildIncompatible: "development-build-incompatible",
	TaggedReleaseIncompatible:    "tagged-release-incompatible",
}

// String returns the wire name for f, or "unknown" if f is out of range.
func (f FailureCode) String() string {
	if f < 0 || int(f) >= len(failureCodeNames) {
		return "unknown"
	}
	return failureCodeNames[f]
}

// Valid reports whether f is one of the defined constants.
func (f FailureCode) Valid() bool {
	return f >= Unsupported && f <= TaggedReleaseIncompatible
}

// TypeName implements model.Identifiable.
func (FailureCode) TypeName() string { return "FailureCode" }

// Redacted implements model.Loggable.
func (f FailureCode) Redacted() string { return f.String() }

// IsZero reports whether f is Unsupported, the zero value. Unsupported is a
// meaningful value in its own right, so this is not an error indicator.
func (f FailureCode) IsZero() bool { return f == Unsupported }

// Validate returns an error if f is not one of the defined constants.
func (f FailureCode) Validate() error {
	if !f.Valid() {
		return &relerrors.ValidationError{Type: "FailureCode", Reason: "unknown value"}
	}
	return nil
}

// MarshalJSON encodes f as its numeric wire value, matching the HTTP
// surface's selection-failure response body.
func (f FailureCode) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return nil, &relerrors.MarshalError{Type: "FailureCode", Value: int(f)}
	}
	return json.Marshal(int(f))
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FailureCode) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return &relerrors.UnmarshalError{Type: "FailureCode", Data: data, Reason: err.Error()}
	}
	parsed := FailureCode(n)
	if !parsed.Valid() {
		return &relerrors.ParseError{Type: "FailureCode", Value: string(data)}
	}
	*f = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f FailureCode) MarshalYAML() (any, error) {
	if !f.Valid() {
		return nil, &relerrors.MarshalError{Type: "FailureCode", Value: int(f)}
	}
	return int(f), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FailureCode) UnmarshalYAML(node *yaml.Node) error {
	var n int
	if err := node.Decode(&n); err != nil {
		return &relerrors.UnmarshalError{Type: "FailureCode", Reason: err.Error()}
	}
	parsed := FailureCode(n)
	if !parsed.Valid() {
		return &relerrors.ParseError{Type: "FailureCode", Value: node.Value}
	}
	*f = parsed
	return nil
}
