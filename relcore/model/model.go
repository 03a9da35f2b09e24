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

// Package model defines the contracts every release-core domain type
// (Version, Compatibility, ReleaseRecord, FailureCode, ...) implements.
//
// Sharing one contract lets the rest of relcore treat these types
// uniformly: validate a batch with ValidateAll, round-trip one through JSON
// with ToJSON/FromJSON, and log it safely with Redacted instead of ad-hoc
// per-type plumbing.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the contract every release-core domain type satisfies.
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Validatable checks that an instance's invariants hold.
type Validatable interface {
	// Validate returns nil if the instance is well-formed, or an error
	// (typically *relerrors.ValidationError) describing the first
	// invariant that does not hold. Validate must not mutate the receiver.
	Validate() error
}

// Serializable round-trips a value through JSON and YAML.
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable provides both a safe and a full string representation.
type Loggable interface {
	// Redacted returns a representation safe for production logs: no
	// artifact shasums or API tokens in full, no raw commit ids beyond
	// what is already public in the version string.
	Redacted() string

	// String returns the full representation. It must not be written to
	// logs that are retained or shipped off-box; use Redacted for that.
	String() string
}

// Identifiable names a type for logs, metrics and diagnostics.
type Identifiable interface {
	TypeName() string
}

// ZeroCheckable reports whether a value is the type's zero value.
type ZeroCheckable interface {
	IsZero() bool
}
