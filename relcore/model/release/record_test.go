package release_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
)

const validShasum = "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9"

func mustParseVersion(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.Parse(s)
	if err != nil {
		t.Fatalf("version.Parse(%q) failed: %v", s, err)
	}
	return v
}

func validTaggedRecord(t *testing.T) release.ReleaseRecord {
	t.Helper()
	zls := mustParseVersion(t, "0.12.0")
	zig := mustParseVersion(t, "0.12.0")
	return release.ReleaseRecord{
		ZLSVersion:               zls,
		ZigVersion:               zig,
		MinimumBuildZigVersion:   mustParseVersion(t, "0.12.0"),
		MinimumRuntimeZigVersion: mustParseVersion(t, "0.12.0"),
		Date:                     time.Unix(1_700_000_000, 0).UTC(),
		Artifacts: []release.ReleaseArtifact{
			{OS: "linux", Arch: "x86_64", Version: zls, Extension: release.ExtTarGz, FileShasum: validShasum, FileSize: 1024},
		},
		TestedZigVersions: map[string]release.Compatibility{
			zig.String(): release.Full,
		},
	}
}

func TestReleaseRecord_Validate_AcceptsWellFormedTaggedRecord(t *testing.T) {
	rec := validTaggedRecord(t)
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestReleaseRecord_Validate_RejectsNonZeroMajor(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.ZLSVersion = mustParseVersion(t, "1.0.0")
	rec.TestedZigVersions = map[string]release.Compatibility{rec.ZigVersion.String(): release.Full}

	err := rec.Validate()
	if err == nil {
		t.Fatal("expected error for non-zero zls major version")
	}
	if _, ok := err.(*relerrors.UnsupportedMajorError); !ok {
		t.Errorf("error type = %T, want *relerrors.UnsupportedMajorError", err)
	}
}

func TestReleaseRecord_Validate_RejectsNonZeroDevPatch(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.ZLSVersion = mustParseVersion(t, "0.12.3-dev.1+abcdef1")

	if err := rec.Validate(); err == nil {
		t.Error("expected error for development build with nonzero patch")
	}
}

func TestReleaseRecord_Validate_RejectsTaggedWithoutArtifacts(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.Artifacts = nil

	if err := rec.Validate(); err == nil {
		t.Error("expected error for tagged release without artifacts")
	}
}

func TestReleaseRecord_Validate_AllowsDevWithoutArtifacts(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.ZLSVersion = mustParseVersion(t, "0.12.0-dev.1+abcdef1")
	rec.Artifacts = nil

	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestReleaseRecord_Validate_RejectsDuplicateArtifactInstance(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.Artifacts = append(rec.Artifacts, release.ReleaseArtifact{
		OS: "linux", Arch: "x86_64", Version: rec.ZLSVersion, Extension: release.ExtTarGz, FileShasum: validShasum, FileSize: 2048,
	})

	if err := rec.Validate(); err == nil {
		t.Error("expected error for duplicate os/arch/extension artifact")
	}
}

func TestReleaseRecord_Validate_AllowsSharedOSArchDifferentExtension(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.Artifacts = append(rec.Artifacts, release.ReleaseArtifact{
		OS: "linux", Arch: "x86_64", Version: rec.ZLSVersion, Extension: release.ExtTarXz, FileShasum: validShasum, FileSize: 2048,
	})

	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for a legitimate tar.xz/tar.gz pair sharing os/arch", err)
	}
}

func TestReleaseRecord_Validate_RejectsArtifactVersionMismatch(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.Artifacts[0].Version = mustParseVersion(t, "0.11.0")

	if err := rec.Validate(); err == nil {
		t.Error("expected error when artifact version does not match zlsVersion")
	}
}

func TestReleaseRecord_Validate_RejectsMissingSelfTestedEntry(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.TestedZigVersions = map[string]release.Compatibility{}

	if err := rec.Validate(); err == nil {
		t.Error("expected error when testedZigVersions lacks the build's own zig version")
	}
}

func TestReleaseRecord_Validate_RejectsSelfTestedNotFull(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.TestedZigVersions = map[string]release.Compatibility{rec.ZigVersion.String(): release.OnlyRuntime}

	if err := rec.Validate(); err == nil {
		t.Error("expected error when the build's own zig version is not recorded as full compatibility")
	}
}

func TestReleaseRecord_Validate_RejectsBadShasum(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.Artifacts[0].FileShasum = "not-a-hash"

	if err := rec.Validate(); err == nil {
		t.Error("expected error for malformed artifact shasum")
	}
}

func TestReleaseRecord_JSONRoundTrip(t *testing.T) {
	rec := validTaggedRecord(t)

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"zlsVersion":"0.12.0"`) {
		t.Errorf("Marshal output missing expected zlsVersion field: %s", data)
	}

	var got release.ReleaseRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.ZLSVersion != rec.ZLSVersion || got.ZigVersion != rec.ZigVersion {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, rec)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].FileShasum != validShasum {
		t.Errorf("round trip lost artifact data: %+v", got.Artifacts)
	}
}

func TestReleaseRecord_Redacted_OmitsShasums(t *testing.T) {
	rec := validTaggedRecord(t)
	rec.Minisign = true

	if strings.Contains(rec.Redacted(), validShasum) {
		t.Error("Redacted() leaked an artifact shasum")
	}
	if !strings.Contains(rec.Redacted(), "minisign=true") {
		t.Errorf("Redacted() = %q, want it to note minisign=true", rec.Redacted())
	}
}
