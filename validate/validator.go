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

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/store"
)

// filenamePattern matches "zls-<os>-<arch>-<version>.<ext>" where version
// follows the project's dialect grammar and ext is one of the three
// accepted extensions.
var filenamePattern = regexp.MustCompile(
	`^zls-([a-z0-9_]+)-([a-z0-9_]+)-(\d+\.\d+\.\d+(?:-dev\.\d+\+[0-9a-f]{7,9})?)\.(tar\.xz|tar\.gz|zip)$`)

// Validator runs the ordered publish checks against a Store.
type Validator struct {
	Store store.Store

	// ForceMinisign rejects any publish missing a ".minisig" sidecar for
	// one of its artifacts. When false, signature presence still must be
	// all-or-nothing across the artifact set, just not mandatory.
	ForceMinisign bool

	// Now returns the publish timestamp. Defaults to time.Now when nil;
	// tests substitute a fixed clock.
	Now func() time.Time
}

// Outcome is the result of a successful Validate call: the constructed
// record plus what the caller (the publish HTTP handler) still needs to do
// as deferred work.
type Outcome struct {
	Record release.ReleaseRecord

	// Compatibility is the compatibility value this publish reports for
	// (Record.ZLSVersion, Record.ZigVersion) — identical to the request's
	// own Compatibility field, kept here so the caller doesn't need to
	// re-parse it.
	Compatibility release.Compatibility

	// FreshArtifacts is true when this publish's artifacts have not been
	// written to the blob store before (a brand-new tagged release, or a
	// development build's first artifacts for its (major, minor,
	// commitHeight)). The publish handler re-materializes the index only
	// when this is true; neither Validate, Publish nor the handler writes
	// artifact or sidecar blobs.
	FreshArtifacts bool
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Validate runs checks 1-7 of the publish validator and, on success,
// constructs the record check 8 would store. It performs no writes; the
// caller applies Outcome via Publish.
func (v *Validator) Validate(ctx context.Context, req Request) (Outcome, error) {
	// 1. Scalar fields parse.
	zlsVersion, err := version.Parse(req.ZLSVersion)
	if err != nil {
		return Outcome{}, newErr(KindArtifactNaming, "zlsVersion: "+err.Error())
	}
	zigVersion, err := version.Parse(req.ZigVersion)
	if err != nil {
		return Outcome{}, newErr(KindArtifactNaming, "zigVersion: "+err.Error())
	}
	minBuild, err := version.Parse(req.MinimumBuildZigVersion)
	if err != nil {
		return Outcome{}, newErr(KindArtifactNaming, "minimumBuildZigVersion: "+err.Error())
	}
	minRuntime, err := version.Parse(req.MinimumRuntimeZigVersion)
	if err != nil {
		return Outcome{}, newErr(KindArtifactNaming, "minimumRuntimeZigVersion: "+err.Error())
	}
	compat, err := release.ParseCompatibility(req.Compatibility)
	if err != nil {
		return Outcome{}, newErr(KindArtifactNaming, "compatibility: "+err.Error())
	}

	// 2. Artifact file names, per-artifact shasum/size shape.
	artifacts := make([]release.ReleaseArtifact, 0, len(req.Artifacts))
	signed := 0
	for _, u := range req.Artifacts {
		m := filenamePattern.FindStringSubmatch(u.FileName)
		if m == nil {
			return Outcome{}, newErr(KindArtifactNaming, "malformed artifact file name: "+u.FileName)
		}
		os, arch, versionStr, ext := m[1], m[2], m[3], m[4]
		if versionStr != zlsVersion.String() {
			return Outcome{}, newErr(KindVersionMismatch,
				"artifact "+u.FileName+" version does not match zlsVersion "+zlsVersion.String())
		}
		if len(u.Shasum) != 64 || strings.Trim(u.Shasum, "0123456789abcdef") != "" {
			return Outcome{}, newErr(KindArtifactShasumShape, "artifact "+u.FileName+": shasum must be 64 hex characters")
		}
		if u.Size <= 0 {
			return Outcome{}, newErr(KindArtifactShasumShape, "artifact "+u.FileName+": size must be positive")
		}
		if u.Minisig != nil {
			signed++
		}
		artifacts = append(artifacts, release.ReleaseArtifact{
			OS:         os,
			Arch:       arch,
			Version:    zlsVersion,
			Extension:  release.Extension(ext),
			FileShasum: u.Shasum,
			FileSize:   u.Size,
		})
	}
	if v.ForceMinisign && signed != len(artifacts) {
		return Outcome{}, newErr(KindArtifactShasumShape, "forceMinisign is set but not every artifact carries a .minisig sidecar")
	}
	if signed != 0 && signed != len(artifacts) {
		return Outcome{}, newErr(KindArtifactShasumShape, "signature presence must be all-or-nothing across the artifact set")
	}

	// 3. Per-(os, arch, version) group extension set.
	if err := checkExtensionGroups(artifacts); err != nil {
		return Outcome{}, err
	}

	// 4. I3, I4, I8 plus the record's other self-contained invariants.
	rec := release.ReleaseRecord{
		ZLSVersion:               zlsVersion,
		ZigVersion:               zigVersion,
		MinimumBuildZigVersion:   minBuild,
		MinimumRuntimeZigVersion: minRuntime,
		Date:                     v.now().UTC(),
		Artifacts:                artifacts,
		TestedZigVersions:        map[string]release.Compatibility{zigVersion.String(): release.Full},
		Minisign:                 signed > 0,
	}
	if err := checkRecordInvariants(rec, compat); err != nil {
		return Outcome{}, err
	}

	artifactsEmpty := len(artifacts) == 0

	// 5. artifacts empty <=> compatibility == None.
	if artifactsEmpty != (compat == release.None) {
		return Outcome{}, newErr(KindArtifactEmpty,
			"artifacts-empty and compatibility==None must hold together or not at all")
	}

	// 6. I6: an artifacts-empty publish must update an existing record.
	existing, found, err := v.Store.GetByVersion(ctx, zlsVersion)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "validate: getByVersion")
	}
	if artifactsEmpty && !found {
		return Outcome{}, newErr(KindFailedBuildNotUpdatable,
			"a first publish of "+zlsVersion.String()+" must carry artifacts")
	}

	fresh := !found
	// 7. I7: development-build commit-height conflict.
	if zlsVersion.Dev {
		existingDev, ok, err := v.Store.DevByQuad(ctx, zlsVersion.Major, zlsVersion.Minor, zlsVersion.Patch, zlsVersion.CommitHeight)
		if err != nil {
			return Outcome{}, errors.Wrap(err, "validate: devByQuad")
		}
		if ok {
			if existingDev.ZLSVersion.CommitID != zlsVersion.CommitID {
				return Outcome{}, newErr(KindConflictingDevCommit,
					"(major, minor, patch, commitHeight) "+zlsVersion.String()+" already published with a different commit id")
			}
			fresh = false
		}
	}

	if found {
		rec = existing
	}

	return Outcome{
		Record:         rec,
		Compatibility:  compat,
		FreshArtifacts: fresh && !artifactsEmpty,
	}, nil
}

// Publish runs Validate and, on success, applies the atomic store batch
// from check 8: upsert the (possibly pre-existing) record and patch in the
// new compatibility datapoint in one commit, so a newly created record is
// never visible without the datapoint that created it.
func (v *Validator) Publish(ctx context.Context, req Request) (Outcome, error) {
	outcome, err := v.Validate(ctx, req)
	if err != nil {
		return Outcome{}, err
	}

	zigVersion, err := version.Parse(req.ZigVersion)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "validate: re-parse zigVersion")
	}

	rec := outcome.Record
	err = v.Store.Batch(ctx, []store.Mutation{
		{Upsert: &rec},
		{Patch: &store.PatchTestedZigVersions{
			ZLSVersion: rec.ZLSVersion,
			ZigVersion: zigVersion,
			Compat:     outcome.Compatibility,
		}},
	})
	if err != nil {
		return Outcome{}, errors.Wrap(err, "validate: batch")
	}
	return outcome, nil
}

// checkExtensionGroups enforces I2 per (os, arch, version) group: a
// windows group's extension set must be exactly {zip}; every other
// group's must be exactly {tar.xz, tar.gz}.
func checkExtensionGroups(artifacts []release.ReleaseArtifact) error {
	groups := make(map[string]map[release.Extension]bool)
	osByGroup := make(map[string]string)
	for _, a := range artifacts {
		key := a.OS + "/" + a.Arch + "/" + a.Version.String()
		if groups[key] == nil {
			groups[key] = make(map[release.Extension]bool)
		}
		groups[key][a.Extension] = true
		osByGroup[key] = a.OS
	}
	for key, exts := range groups {
		if osByGroup[key] == "windows" {
			if len(exts) != 1 || !exts[release.ExtZip] {
				return newErr(KindExtensionSetMismatch, "windows artifact group "+key+" must ship exactly zip")
			}
			continue
		}
		if len(exts) != 2 || !exts[release.ExtTarXz] || !exts[release.ExtTarGz] {
			return newErr(KindExtensionSetMismatch, "artifact group "+key+" must ship exactly tar.xz and tar.gz")
		}
	}
	return nil
}

// checkRecordInvariants enforces I3, I4, I8, and the tagged-without-
// artifacts and compatibility-mismatch rejections directly on rec, reporting
// each as the publish taxonomy's specific Kind. It does not call
// ReleaseRecord.Validate.
func checkRecordInvariants(rec release.ReleaseRecord, compat release.Compatibility) error {
	if rec.ZLSVersion.Major != 0 {
		// I8: propagated as-is; the HTTP layer maps *relerrors.UnsupportedMajorError to 418.
		return &relerrors.UnsupportedMajorError{Major: rec.ZLSVersion.Major}
	}
	if rec.ZLSVersion.Dev && rec.ZLSVersion.Patch != 0 {
		return newErr(KindDevPatchNonzero, "development build patch must be zero")
	}
	if rec.ZLSVersion.IsTagged() {
		if !rec.WithArtifacts() {
			return newErr(KindTaggedWithoutArtifacts, "tagged release must publish at least one artifact")
		}
		if !rec.ZigVersion.IsTagged() {
			return newErr(KindVersionMismatch, "tagged zlsVersion requires a tagged zigVersion")
		}
		if compat != release.Full {
			return newErr(KindCompatibilityMismatch, "tagged release publish must report Full compatibility")
		}
	}
	// The record's own build/zig pairing must always be reported Full,
	// tagged or not: zigVersion is the version the artifacts were built
	// with, and I5 requires the self entry be Full whenever the record
	// carries artifacts for that zig version.
	if rec.WithArtifacts() && compat != release.Full {
		return newErr(KindCompatibilityMismatch, "a publish shipping artifacts for its own zigVersion must report Full compatibility")
	}
	return nil
}
