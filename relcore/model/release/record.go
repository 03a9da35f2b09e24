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

// Package release holds the domain types describing one CI-produced ZLS
// build: its compatibility with a Zig version, the artifacts it shipped,
// and the full record the store persists and the selector reasons over.
package release

import (
	"encoding/json"
	"fmt"
	"time"

	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"gopkg.in/yaml.v3"
)

// Compile-time check that ReleaseRecord implements model.Model.
var _ model.Model = (*ReleaseRecord)(nil)

// ReleaseRecord is everything known about one published ZLS build: the
// version it was built at, the Zig version it targeted, the Zig versions it
// has since been tested against, and what it shipped.
type ReleaseRecord struct {
	ZLSVersion version.Version
	ZigVersion version.Version

	// MinimumBuildZigVersion and MinimumRuntimeZigVersion are the floors
	// below which this build is known never to compile, respectively
	// never to run, regardless of what TestedZigVersions says about
	// versions above them. The selector's support-floor check uses
	// these directly; it does not infer a floor from TestedZigVersions.
	MinimumBuildZigVersion   version.Version
	MinimumRuntimeZigVersion version.Version

	Date time.Time

	Artifacts []ReleaseArtifact

	// TestedZigVersions maps a Zig version's canonical string to the
	// Compatibility observed in CI. Always contains at least ZigVersion
	// itself, mapped to Full.
	TestedZigVersions map[string]Compatibility

	// Minisign reports whether a ".minisig" sidecar accompanies every
	// artifact in this record. Signature presence is all-or-nothing
	// across an artifact set; the publish validator enforces that before
	// a record with Minisign true is ever stored.
	Minisign bool
}

// WithArtifacts reports whether r shipped at least one artifact.
func (r ReleaseRecord) WithArtifacts() bool {
	return len(r.Artifacts) > 0
}

// TestedAgainst reports the recorded compatibility for zigVersion, and
// whether any record exists for it at all.
func (r ReleaseRecord) TestedAgainst(zigVersion version.Version) (Compatibility, bool) {
	c, ok := r.TestedZigVersions[zigVersion.String()]
	return c, ok
}

// Validate checks every per-record invariant: version well-formedness, the
// major-version floor, the development-build patch constraint, artifact
// shape and uniqueness, and the self-compatibility entry every record must
// carry.
//
// Validate does not check invariants that span multiple records (no two
// development builds may share a (major, minor, commit height) triple with
// conflicting commit ids, a first publish must carry artifacts) - those
// belong to the publish validator, which has access to the store.
func (r ReleaseRecord) Validate() error {
	if err := r.ZLSVersion.Validate(); err != nil {
		return fmt.Errorf("zls version: %w", err)
	}
	if r.ZLSVersion.Major != 0 {
		return &relerrors.UnsupportedMajorError{Major: r.ZLSVersion.Major}
	}
	if err := r.ZigVersion.Validate(); err != nil {
		return fmt.Errorf("zig version: %w", err)
	}
	if !r.MinimumBuildZigVersion.IsZero() {
		if err := r.MinimumBuildZigVersion.Validate(); err != nil {
			return fmt.Errorf("minimum build zig version: %w", err)
		}
	}
	if !r.MinimumRuntimeZigVersion.IsZero() {
		if err := r.MinimumRuntimeZigVersion.Validate(); err != nil {
			return fmt.Errorf("minimum runtime zig version: %w", err)
		}
	}

	if r.ZLSVersion.Dev && r.ZLSVersion.Patch != 0 {
		return &relerrors.ValidationError{Type: "ReleaseRecord", Field: "ZLSVersion", Reason: "development build patch must be zero"}
	}

	if r.ZLSVersion.IsTagged() && !r.WithArtifacts() {
		return &relerrors.ValidationError{Type: "ReleaseRecord", Field: "Artifacts", Reason: "tagged release must publish at least one artifact"}
	}

	seenKeys := make(map[string]struct{}, len(r.Artifacts))
	for i, a := range r.Artifacts {
		if err := a.validate(); err != nil {
			return fmt.Errorf("artifact[%d]: %w", i, err)
		}
		if !a.Version.Equal(r.ZLSVersion) {
			return &relerrors.ValidationError{Type: "ReleaseRecord", Field: "Artifacts", Reason: fmt.Sprintf("artifact[%d] version %s does not match zlsVersion %s", i, a.Version, r.ZLSVersion)}
		}
		if _, dup := seenKeys[a.instanceKey()]; dup {
			return &relerrors.ValidationError{Type: "ReleaseRecord", Field: "Artifacts", Reason: fmt.Sprintf("duplicate artifact for os/arch/extension %q", a.instanceKey())}
		}
		seenKeys[a.instanceKey()] = struct{}{}
	}

	self, ok := r.TestedAgainst(r.ZigVersion)
	if !ok {
		return &relerrors.ValidationError{Type: "ReleaseRecord", Field: "TestedZigVersions", Reason: "must include an entry for the build's own zig version"}
	}
	if self != Full {
		return &relerrors.ValidationError{Type: "ReleaseRecord", Field: "TestedZigVersions", Reason: "the build's own zig version must be recorded as full compatibility"}
	}

	if r.Date.IsZero() {
		return &relerrors.ValidationError{Type: "ReleaseRecord", Field: "Date", Reason: "must not be zero"}
	}

	return nil
}

// IsZero reports whether r is the zero ReleaseRecord.
func (r ReleaseRecord) IsZero() bool {
	return r.ZLSVersion.IsZero() && r.ZigVersion.IsZero() && r.Date.IsZero() && len(r.Artifacts) == 0 && len(r.TestedZigVersions) == 0
}

// TypeName implements model.Identifiable.
func (ReleaseRecord) TypeName() string { return "ReleaseRecord" }

// String implements model.Loggable's unredacted form.
func (r ReleaseRecord) String() string {
	return fmt.Sprintf("ReleaseRecord{zls=%s zig=%s artifacts=%d minisign=%t}", r.ZLSVersion, r.ZigVersion, len(r.Artifacts), r.Minisign)
}

// Redacted implements model.Loggable, omitting artifact shasums, which
// don't belong in shipped logs even though they aren't secret.
func (r ReleaseRecord) Redacted() string {
	return fmt.Sprintf("ReleaseRecord{zls=%s zig=%s artifacts=%d minisign=%t}", r.ZLSVersion, r.ZigVersion, len(r.Artifacts), r.Minisign)
}

type releaseRecordWire struct {
	ZLSVersion               version.Version          `json:"zlsVersion" yaml:"zlsVersion"`
	ZigVersion               version.Version          `json:"zigVersion" yaml:"zigVersion"`
	MinimumBuildZigVersion   version.Version          `json:"minimumBuildZigVersion" yaml:"minimumBuildZigVersion"`
	MinimumRuntimeZigVersion version.Version          `json:"minimumRuntimeZigVersion" yaml:"minimumRuntimeZigVersion"`
	Date                     time.Time                `json:"date" yaml:"date"`
	Artifacts                []releaseArtifactWire    `json:"artifacts" yaml:"artifacts"`
	TestedZigVersions        map[string]Compatibility `json:"testedZigVersions" yaml:"testedZigVersions"`
	Minisign                 bool                     `json:"minisign,omitempty" yaml:"minisign,omitempty"`
}

type releaseArtifactWire struct {
	OS         string          `json:"os" yaml:"os"`
	Arch       string          `json:"arch" yaml:"arch"`
	Version    version.Version `json:"version" yaml:"version"`
	Extension  Extension       `json:"extension" yaml:"extension"`
	FileShasum string          `json:"fileShasum" yaml:"fileShasum"`
	FileSize   int64           `json:"fileSize" yaml:"fileSize"`
}

func (r ReleaseRecord) toWire() releaseRecordWire {
	artifacts := make([]releaseArtifactWire, len(r.Artifacts))
	for i, a := range r.Artifacts {
		artifacts[i] = releaseArtifactWire{
			OS:         a.OS,
			Arch:       a.Arch,
			Version:    a.Version,
			Extension:  a.Extension,
			FileShasum: a.FileShasum,
			FileSize:   a.FileSize,
		}
	}
	return releaseRecordWire{
		ZLSVersion:               r.ZLSVersion,
		ZigVersion:               r.ZigVersion,
		MinimumBuildZigVersion:   r.MinimumBuildZigVersion,
		MinimumRuntimeZigVersion: r.MinimumRuntimeZigVersion,
		Date:                     r.Date,
		Artifacts:                artifacts,
		TestedZigVersions:        r.TestedZigVersions,
		Minisign:                 r.Minisign,
	}
}

func (w releaseRecordWire) toRecord() ReleaseRecord {
	artifacts := make([]ReleaseArtifact, len(w.Artifacts))
	for i, a := range w.Artifacts {
		artifacts[i] = ReleaseArtifact{
			OS:         a.OS,
			Arch:       a.Arch,
			Version:    a.Version,
			Extension:  a.Extension,
			FileShasum: a.FileShasum,
			FileSize:   a.FileSize,
		}
	}
	return ReleaseRecord{
		ZLSVersion:               w.ZLSVersion,
		ZigVersion:               w.ZigVersion,
		MinimumBuildZigVersion:   w.MinimumBuildZigVersion,
		MinimumRuntimeZigVersion: w.MinimumRuntimeZigVersion,
		Date:                     w.Date,
		Artifacts:                artifacts,
		TestedZigVersions:        w.TestedZigVersions,
		Minisign:                 w.Minisign,
	}
}

// MarshalJSON implements json.Marshaler.
func (r ReleaseRecord) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(r.toWire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ReleaseRecord) UnmarshalJSON(data []byte) error {
	var w releaseRecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return &relerrors.UnmarshalError{Type: "ReleaseRecord", Data: data, Reason: err.Error()}
	}
	*r = w.toRecord()
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r ReleaseRecord) MarshalYAML() (any, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r.toWire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *ReleaseRecord) UnmarshalYAML(node *yaml.Node) error {
	var w releaseRecordWire
	if err := node.Decode(&w); err != nil {
		return &relerrors.UnmarshalError{Type: "ReleaseRecord", Reason: err.Error()}
	}
	*r = w.toRecord()
	return nil
}
