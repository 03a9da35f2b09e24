package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/store"
	"github.com/zigtools/zls-releases/store/memory"
)

func mustParse(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.Parse(s)
	if err != nil {
		t.Fatalf("version.Parse(%q): %v", s, err)
	}
	return v
}

func taggedRecord(t *testing.T, zlsVersion string) release.ReleaseRecord {
	t.Helper()
	v := mustParse(t, zlsVersion)
	return release.ReleaseRecord{
		ZLSVersion: v,
		ZigVersion: v,
		Date:       time.Unix(1_700_000_000, 0).UTC(),
		Artifacts: []release.ReleaseArtifact{
			{OS: "linux", Arch: "x86_64", Version: v, Extension: release.ExtTarGz, FileShasum: "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9", FileSize: 1},
		},
		TestedZigVersions: map[string]release.Compatibility{v.String(): release.Full},
	}
}

func TestStore_AllTaggedDesc(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for _, v := range []string{"0.11.0", "0.12.1", "0.12.0"} {
		if err := s.UpsertRecord(ctx, taggedRecord(t, v)); err != nil {
			t.Fatalf("UpsertRecord(%s): %v", v, err)
		}
	}

	got, err := s.AllTaggedDesc(ctx)
	if err != nil {
		t.Fatalf("AllTaggedDesc: %v", err)
	}
	want := []string{"0.12.1", "0.12.0", "0.11.0"}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].ZLSVersion.String() != w {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ZLSVersion, w)
		}
	}
}

func TestStore_TaggedByMinor(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for _, v := range []string{"0.12.0", "0.12.1", "0.12.2", "0.13.0"} {
		_ = s.UpsertRecord(ctx, taggedRecord(t, v))
	}

	got, err := s.TaggedByMinor(ctx, 0, 12)
	if err != nil {
		t.Fatalf("TaggedByMinor: %v", err)
	}
	want := []string{"0.12.2", "0.12.1", "0.12.0"}
	for i, w := range want {
		if got[i].ZLSVersion.String() != w {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ZLSVersion, w)
		}
	}
}

func TestStore_DevByMinor_OrdersByCommitHeight(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	devVersions := []string{"0.12.0-dev.5+aaaaaaaaa", "0.12.0-dev.1+aaaaaaaaa", "0.12.0-dev.9+aaaaaaaaa"}
	for _, v := range devVersions {
		rec := taggedRecord(t, v)
		rec.Artifacts = nil
		if err := s.UpsertRecord(ctx, rec); err != nil {
			t.Fatalf("UpsertRecord(%s): %v", v, err)
		}
	}

	got, err := s.DevByMinor(ctx, 0, 12)
	if err != nil {
		t.Fatalf("DevByMinor: %v", err)
	}
	want := []int{1, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].ZLSVersion.CommitHeight != w {
			t.Errorf("got[%d].CommitHeight = %d, want %d", i, got[i].ZLSVersion.CommitHeight, w)
		}
	}
}

func TestStore_DevByQuad(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	rec := taggedRecord(t, "0.12.0-dev.5+aaaaaaaaa")
	rec.Artifacts = nil
	_ = s.UpsertRecord(ctx, rec)

	got, ok, err := s.DevByQuad(ctx, 0, 12, 0, 5)
	if err != nil {
		t.Fatalf("DevByQuad: %v", err)
	}
	if !ok {
		t.Fatal("DevByQuad: ok = false, want true")
	}
	if got.ZLSVersion.CommitID != "aaaaaaaaa" {
		t.Errorf("got commit id %q", got.ZLSVersion.CommitID)
	}

	_, ok, err = s.DevByQuad(ctx, 0, 12, 0, 6)
	if err != nil {
		t.Fatalf("DevByQuad: %v", err)
	}
	if ok {
		t.Error("DevByQuad for absent quad: ok = true, want false")
	}
}

func TestStore_UpsertRecord_NoOpIfExists(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	first := taggedRecord(t, "0.12.0")
	_ = s.UpsertRecord(ctx, first)

	second := first
	second.Minisign = true
	if err := s.UpsertRecord(ctx, second); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	got, ok, err := s.GetByVersion(ctx, mustParse(t, "0.12.0"))
	if err != nil || !ok {
		t.Fatalf("GetByVersion: ok=%v err=%v", ok, err)
	}
	if got.Minisign {
		t.Error("second upsert overwrote the existing row, want no-op")
	}
}

func TestStore_PatchTestedZigVersions(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_ = s.UpsertRecord(ctx, taggedRecord(t, "0.12.0"))

	err := s.PatchTestedZigVersions(ctx, store.PatchTestedZigVersions{
		ZLSVersion: mustParse(t, "0.12.0"),
		ZigVersion: mustParse(t, "0.12.1"),
		Compat:     release.Full,
	})
	if err != nil {
		t.Fatalf("PatchTestedZigVersions: %v", err)
	}

	got, _, _ := s.GetByVersion(ctx, mustParse(t, "0.12.0"))
	if got.TestedZigVersions["0.12.1"] != release.Full {
		t.Errorf("patched compatibility = %v, want Full", got.TestedZigVersions["0.12.1"])
	}
}

func TestStore_PatchTestedZigVersions_NotFound(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	err := s.PatchTestedZigVersions(ctx, store.PatchTestedZigVersions{
		ZLSVersion: mustParse(t, "0.12.0"),
		ZigVersion: mustParse(t, "0.12.0"),
		Compat:     release.Full,
	})
	if err == nil {
		t.Fatal("expected error patching a nonexistent record")
	}
}

func TestStore_Batch_Atomic(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	rec := taggedRecord(t, "0.12.0")
	rec.TestedZigVersions = map[string]release.Compatibility{"0.12.0": release.Full}

	err := s.Batch(ctx, []store.Mutation{
		{Upsert: &rec},
		{Patch: &store.PatchTestedZigVersions{
			ZLSVersion: rec.ZLSVersion,
			ZigVersion: mustParse(t, "0.12.1"),
			Compat:     release.Full,
		}},
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	got, ok, _ := s.GetByVersion(ctx, rec.ZLSVersion)
	if !ok {
		t.Fatal("record not present after batch")
	}
	if got.TestedZigVersions["0.12.1"] != release.Full {
		t.Error("batch did not apply the patch alongside the upsert")
	}
}
