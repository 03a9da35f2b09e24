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

// Compile-time check that Compatibility implements model.Model.
var _ model.Model = Compatibility(0)

// Compatibility records how a (ZLS build, Zig version) pair behaved in CI.
type Compatibility int

const (
	// None means the pair is incompatible: ZLS could neither be built
	// with, nor run against, this Zig version.
	None Compatibility = iota

	// OnlyRuntime means ZLS could not be built from source with this Zig
	// version, but a pre-built binary runs against it.
	OnlyRuntime

	// Full means ZLS both built and ran against this Zig version.
	Full
)

// String constants for Compatibility's canonical external representation.
const (
	NoneStr        = "none"
	OnlyRuntimeStr = "only-runtime"
	FullStr        = "full"
)

// ParseCompatibility converts a textual representation into a
// Compatibility value, returning a *relerrors.ParseError on failure.
func ParseCompatibility(s string) (Compatibility, error) {
	switch s {
	case NoneStr:
		return None, nil
	case OnlyRuntimeStr:
		return OnlyRuntime, nil
	case FullStr:
		return Full, nil
	default:
		return None, &relerrors.ParseError{Type: "Compatibility", Value: s}
	}
}

// String returns the canonical string form, or "unknown" for an
// out-of-range value.
func (c Compatibility) String() string {
	switch c {
	case None:
		return NoneStr
	case OnlyRuntime:
		return OnlyRuntimeStr
	case Full:
		return FullStr
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the three defined constants.
func (c Compatibility) Valid() bool {
	return c == None || c == OnlyRuntime || c == Full
}

// TypeName implements model.Identifiable.
func (Compatibility) TypeName() string { return "Compatibility" }

// Redacted implements model.Loggable. Compatibility carries no sensitive
// data.
func (c Compatibility) Redacted() string { return c.String() }

// IsZero reports whether c is the zero value, None. None is a meaningful,
// valid value, so IsZero true does not indicate an error.
func (c Compatibility) IsZero() bool { return c == None }

// Validate returns an error if c is not one of the defined constants.
func (c Compatibility) Validate() error {
	if !c.Valid() {
		return &relerrors.ValidationError{Type: "Compatibility", Reason: "unknown value"}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Compatibility) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, &relerrors.MarshalError{Type: "Compatibility", Value: int(c)}
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Compatibility) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &relerrors.UnmarshalError{Type: "Compatibility", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseCompatibility(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Compatibility) MarshalYAML() (any, error) {
	if !c.Valid() {
		return nil, &relerrors.MarshalError{Type: "Compatibility", Value: int(c)}
	}
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Compatibility) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &relerrors.UnmarshalError{Type: "Compatibility", Reason: err.Error()}
	}
	parsed, err := ParseCompatibility(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
