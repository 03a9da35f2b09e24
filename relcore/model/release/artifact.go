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
	"fmt"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model/version"
)

// Extension enumerates the artifact file extensions a build can publish.
// A windows artifact group ships only Zip; every other OS ships both TarXz
// and TarGz.
type Extension string

const (
	ExtTarXz Extension = "tar.xz"
	ExtTarGz Extension = "tar.gz"
	ExtZip   Extension = "zip"
)

// ReleaseArtifact describes one published binary: the platform it targets,
// where it lives, and its content hash.
//
// ReleaseArtifact does not implement model.Model on its own; it validates as
// part of its owning ReleaseRecord, since some invariants (I1, and the
// no-duplicate-artifact rule) span multiple artifacts of the same record.
type ReleaseArtifact struct {
	OS        string
	Arch      string
	Version   version.Version
	Extension Extension

	// FileShasum is the artifact's content hash as 64 lowercase hex
	// characters (a bare sha256 digest, no "sha256:" scheme prefix on
	// the wire). Validated by prepending the scheme and parsing it as a
	// go-containerregistry v1.Hash, so the accepted shape matches what
	// the rest of that ecosystem expects from a content-addressed blob.
	FileShasum string

	// FileSize is the artifact size in bytes as reported at publish time.
	FileSize int64
}

// validate checks artifact in isolation: well-formed OS/Arch/Extension and
// a parseable shasum. Cross-artifact invariants (matching the record's
// zlsVersion, the per-group extension-set rule) are checked by the owning
// ReleaseRecord and the publish validator, which have visibility across the
// whole artifact set.
func (a ReleaseArtifact) validate() error {
	if a.OS == "" {
		return &relerrors.ValidationError{Type: "ReleaseArtifact", Field: "OS", Reason: "must not be empty"}
	}
	if a.Arch == "" {
		return &relerrors.ValidationError{Type: "ReleaseArtifact", Field: "Arch", Reason: "must not be empty"}
	}
	if a.Extension != ExtTarXz && a.Extension != ExtTarGz && a.Extension != ExtZip {
		return &relerrors.ValidationError{Type: "ReleaseArtifact", Field: "Extension", Reason: "must be tar.xz, tar.gz or zip", Value: a.Extension}
	}
	if err := a.Version.Validate(); err != nil {
		return fmt.Errorf("version: %w", err)
	}
	if a.FileSize <= 0 {
		return &relerrors.ValidationError{Type: "ReleaseArtifact", Field: "FileSize", Reason: "must be positive"}
	}
	if len(a.FileShasum) != 64 {
		return &relerrors.ValidationError{Type: "ReleaseArtifact", Field: "FileShasum", Reason: "must be 64 lowercase hex characters"}
	}
	if _, err := v1.NewHash("sha256:" + a.FileShasum); err != nil {
		return &relerrors.ValidationError{Type: "ReleaseArtifact", Field: "FileShasum", Reason: fmt.Sprintf("not a valid content hash: %v", err)}
	}
	return nil
}

// instanceKey identifies one exact artifact file within a record: its
// (os, arch, extension). A record's artifact list must not contain two
// entries with the same instanceKey.
func (a ReleaseArtifact) instanceKey() string {
	return a.OS + "/" + a.Arch + "/" + string(a.Extension)
}

// groupKey identifies the (os, arch, version) group the publish validator
// checks the required extension set against.
func (a ReleaseArtifact) groupKey() string {
	return a.OS + "/" + a.Arch + "/" + a.Version.String()
}

// FileName renders the artifact's blob key in the pre-0.15.0 file-name
// order, "zls-<os>-<arch>-<version>.<ext>". Callers that need the
// post-0.15.0 order use FileNameArchFirst instead; see the manifest
// package for where that switch is applied.
func (a ReleaseArtifact) FileName() string {
	return fmt.Sprintf("zls-%s-%s-%s.%s", a.OS, a.Arch, a.Version, a.Extension)
}

// FileNameArchFirst renders the artifact's blob key in the ZLS >= 0.15.0
// file-name order, "zls-<arch>-<os>-<version>.<ext>".
func (a ReleaseArtifact) FileNameArchFirst() string {
	return fmt.Sprintf("zls-%s-%s-%s.%s", a.Arch, a.OS, a.Version, a.Extension)
}

// manifestKey is the "<arch>-<os>" form the manifest JSON uses for object
// keys, which is fixed regardless of the ZLS >= 0.15.0 filename reordering
// applied by the manifest formatter.
func (a ReleaseArtifact) manifestKey() string {
	return a.Arch + "-" + a.OS
}
