package index_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/zigtools/zls-releases/blob"
	"github.com/zigtools/zls-releases/blob/fsblob"
	"github.com/zigtools/zls-releases/index"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/selector"
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

func taggedRecord(t *testing.T, s string) release.ReleaseRecord {
	t.Helper()
	v := mustParse(t, s)
	return release.ReleaseRecord{
		ZLSVersion: v,
		ZigVersion: v,
		Date:       time.Unix(1_700_000_000, 0).UTC(),
		Artifacts: []release.ReleaseArtifact{
			{OS: "linux", Arch: "x86_64", Version: v, Extension: release.ExtTarXz, FileShasum: "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9", FileSize: 1024},
		},
		TestedZigVersions: map[string]release.Compatibility{v.String(): release.Full},
	}
}

func TestMaterializer_Materialize_WritesIndexJSON(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	for _, v := range []string{"0.11.0", "0.12.0", "0.12.1"} {
		if err := st.UpsertRecord(ctx, taggedRecord(t, v)); err != nil {
			t.Fatalf("UpsertRecord(%s): %v", v, err)
		}
	}

	blobs, err := fsblob.New(t.TempDir())
	if err != nil {
		t.Fatalf("fsblob.New: %v", err)
	}

	m := &index.Materializer{
		Lister:        &selector.Selector{Store: st},
		Blobs:         blobs,
		PublicURLBase: "https://example.com",
	}
	if err := m.Materialize(ctx); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	obj, ok, err := blobs.Get(ctx, blob.IndexKey)
	if err != nil {
		t.Fatalf("Get(index.json): %v", err)
	}
	if !ok {
		t.Fatal("index.json was not written")
	}
	if obj.ContentType != "application/json" {
		t.Errorf("ContentType = %q, want application/json", obj.ContentType)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(obj.Data, &decoded); err != nil {
		t.Fatalf("Unmarshal index.json: %v", err)
	}
	for _, v := range []string{"0.11.0", "0.12.0", "0.12.1"} {
		if _, ok := decoded[v]; !ok {
			t.Errorf("index.json missing entry for %s: %+v", v, decoded)
		}
	}
}

func TestMaterializer_Materialize_IdempotentOnRerun(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	if err := st.UpsertRecord(ctx, taggedRecord(t, "0.12.0")); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}
	blobs, err := fsblob.New(t.TempDir())
	if err != nil {
		t.Fatalf("fsblob.New: %v", err)
	}
	m := &index.Materializer{Lister: &selector.Selector{Store: st}, Blobs: blobs, PublicURLBase: "https://example.com"}

	if err := m.Materialize(ctx); err != nil {
		t.Fatalf("Materialize (1st): %v", err)
	}
	first, _, err := blobs.Get(ctx, blob.IndexKey)
	if err != nil {
		t.Fatalf("Get (1st): %v", err)
	}

	if err := m.Materialize(ctx); err != nil {
		t.Fatalf("Materialize (2nd): %v", err)
	}
	second, _, err := blobs.Get(ctx, blob.IndexKey)
	if err != nil {
		t.Fatalf("Get (2nd): %v", err)
	}

	if string(first.Data) != string(second.Data) {
		t.Errorf("Materialize was not idempotent:\n%s\nvs\n%s", first.Data, second.Data)
	}
}
