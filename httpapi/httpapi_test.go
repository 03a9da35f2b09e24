package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zigtools/zls-releases/blob/fsblob"
	"github.com/zigtools/zls-releases/httpapi"
	"github.com/zigtools/zls-releases/index"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/selector"
	"github.com/zigtools/zls-releases/store/memory"
	"github.com/zigtools/zls-releases/validate"
)

func mustParse(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.Parse(s)
	if err != nil {
		t.Fatalf("version.Parse(%q): %v", s, err)
	}
	return v
}

func newTestHandler(t *testing.T, token string) *httpapi.Handler {
	t.Helper()
	st := memory.New()
	blobs, err := fsblob.New(t.TempDir())
	if err != nil {
		t.Fatalf("fsblob.New: %v", err)
	}
	sel := &selector.Selector{Store: st}
	return &httpapi.Handler{
		Selector:  sel,
		Validator: &validate.Validator{Store: st, Now: func() time.Time { return time.Unix(1_700_000_000, 0) }},
		Materializer: &index.Materializer{
			Lister:        sel,
			Blobs:         blobs,
			PublicURLBase: "https://example.test/zls",
		},
		APIToken:      token,
		PublicURLBase: "https://example.test/zls",
		Logger:        zap.NewNop(),
	}
}

func taggedRecord(t *testing.T, s string) release.ReleaseRecord {
	t.Helper()
	v := mustParse(t, s)
	return release.ReleaseRecord{
		ZLSVersion:               v,
		ZigVersion:               v,
		MinimumBuildZigVersion:   v,
		MinimumRuntimeZigVersion: v,
		Date:                     time.Unix(1_700_000_000, 0).UTC(),
		Artifacts: []release.ReleaseArtifact{{
			OS: "linux", Arch: "x86_64", Version: v,
			Extension: release.ExtTarXz, FileShasum: strings.Repeat("a", 64), FileSize: 100,
		}},
		TestedZigVersions: map[string]release.Compatibility{v.String(): release.Full},
	}
}

func TestSelectVersion_MissingParams(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/zls/select-version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSelectVersion_UnsupportedZigReturns200WithCode(t *testing.T) {
	h := newTestHandler(t, "secret")
	// The oldest tagged release needs Zig 0.11.0 at runtime, so 0.1.0 falls
	// below the support floor.
	if err := h.Selector.Store.UpsertRecord(context.Background(), taggedRecord(t, "0.11.0")); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/zls/select-version?zig_version=0.1.0&compatibility=full")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != int(release.Unsupported) {
		t.Errorf("code = %d, want %d", body.Code, release.Unsupported)
	}
	if !strings.Contains(body.Message, "0.1.0") {
		t.Errorf("message = %q, want mention of 0.1.0", body.Message)
	}
}

func TestSelectVersion_TaggedMatchReturnsManifest(t *testing.T) {
	h := newTestHandler(t, "secret")
	rec := taggedRecord(t, "0.11.0")
	if err := h.Selector.Store.UpsertRecord(context.Background(), rec); err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}

	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/zls/select-version?zig_version=0.11.0&compatibility=full")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] != "0.11.0" {
		t.Errorf("version = %v, want 0.11.0", body["version"])
	}
	if _, ok := body["x86_64-linux"]; !ok {
		t.Errorf("body missing x86_64-linux entry: %v", body)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestIndexRedirect_RedirectsToPublicURL(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	client := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(srv.URL + "/v1/zls/index.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMovedPermanently {
		t.Errorf("status = %d, want 301", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "https://example.test/zls/index.json" {
		t.Errorf("Location = %q", loc)
	}
}

func TestPublish_RejectsWithoutAuth(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/zls/publish", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if got := resp.Header.Get("WWW-Authenticate"); got != `Basic realm="admin"` {
		t.Errorf("WWW-Authenticate = %q", got)
	}
}

func TestPublish_RejectsBadCredentials(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/zls/publish", strings.NewReader("{}"))
	req.SetBasicAuth("admin", "wrong")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestPublish_AcceptsValidTaggedPublish(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	body := `{
		"zlsVersion": "0.11.0",
		"zigVersion": "0.11.0",
		"minimumBuildZigVersion": "0.11.0",
		"minimumRuntimeZigVersion": "0.11.0",
		"compatibility": "full",
		"artifacts": {
			"zls-linux-x86_64-0.11.0.tar.xz": {"shasum": "` + strings.Repeat("a", 64) + `", "size": 100},
			"zls-linux-x86_64-0.11.0.tar.gz": {"shasum": "` + strings.Repeat("b", 64) + `", "size": 200}
		}
	}`
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/zls/publish", strings.NewReader(body))
	req.SetBasicAuth("admin", "secret")
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPublish_UnsupportedMajorReturnsTeapot(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	body := `{
		"zlsVersion": "1.0.0",
		"zigVersion": "1.0.0",
		"minimumBuildZigVersion": "1.0.0",
		"minimumRuntimeZigVersion": "1.0.0",
		"compatibility": "full",
		"artifacts": {
			"zls-linux-x86_64-1.0.0.tar.xz": {"shasum": "` + strings.Repeat("a", 64) + `", "size": 100},
			"zls-linux-x86_64-1.0.0.tar.gz": {"shasum": "` + strings.Repeat("b", 64) + `", "size": 200}
		}
	}`
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/zls/publish", strings.NewReader(body))
	req.SetBasicAuth("admin", "secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want 418", resp.StatusCode)
	}
}

func TestOptions_FullPreflightGetsCORSHeaders(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/v1/zls/select-version", nil)
	req.Header.Set("Origin", "https://client.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Access-Control-Max-Age = %q, want 86400", got)
	}
}

func TestOptions_BareProbeGetsAllowHeader(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/v1/zls/select-version", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Allow"); got != "GET, HEAD, POST, OPTIONS" {
		t.Errorf("Allow = %q", got)
	}
}

func TestUnknownPath_Returns404(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/zls/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthz_ReportsOK(t *testing.T) {
	h := newTestHandler(t, "secret")
	srv := httptest.NewServer(httpapi.NewRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
