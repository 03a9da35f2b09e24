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

package validate

// Kind classifies a publish rejection into the taxonomy the HTTP layer maps
// to a 4xx response. Every *PublishError carries exactly one Kind; a
// non-zero major version is reported as *relerrors.UnsupportedMajorError
// instead, which has no Kind.
type Kind string

const (
	KindArtifactNaming          Kind = "artifact-naming"
	KindArtifactShasumShape     Kind = "artifact-shasum-shape"
	KindArtifactEmpty           Kind = "artifact-empty"
	KindExtensionSetMismatch    Kind = "extension-set-mismatch"
	KindVersionMismatch         Kind = "version-mismatch"
	KindDevPatchNonzero         Kind = "dev-patch-nonzero"
	KindConflictingDevCommit    Kind = "conflicting-dev-commit"
	KindTaggedWithoutArtifacts  Kind = "tagged-without-artifacts"
	KindFailedBuildNotUpdatable Kind = "failed-build-not-updatable"
	KindCompatibilityMismatch   Kind = "compatibility-mismatch"
)

// PublishError reports why a publish request was rejected.
type PublishError struct {
	Kind   Kind
	Reason string
}

// Error implements the error interface.
func (e *PublishError) Error() string {
	return "validate: " + string(e.Kind) + ": " + e.Reason
}

func newErr(kind Kind, reason string) *PublishError {
	return &PublishError{Kind: kind, Reason: reason}
}
