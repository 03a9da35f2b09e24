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

package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/zigtools/zls-releases/manifest"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/validate"
)

// handleSelectVersion implements GET /v1/zls/select-version.
func (h *Handler) handleSelectVersion(w http.ResponseWriter, r *http.Request) {
	if h.PublicURLBase == "" {
		writePlainError(w, http.StatusInternalServerError, "server misconfigured: no public URL base")
		return
	}

	q := r.URL.Query()
	zigVersionStr := q.Get("zig_version")
	compatStr := q.Get("compatibility")
	if zigVersionStr == "" || compatStr == "" {
		writePlainError(w, http.StatusBadRequest, "zig_version and compatibility are both required")
		return
	}

	zigVersion, err := version.Parse(zigVersionStr)
	if err != nil {
		writePlainError(w, http.StatusBadRequest, "zig_version: "+err.Error())
		return
	}
	compat, err := release.ParseCompatibility(compatStr)
	if err != nil {
		writePlainError(w, http.StatusBadRequest, "compatibility: "+err.Error())
		return
	}

	rec, code, err := h.Selector.Select(r.Context(), zigVersion, compat)
	if err != nil {
		h.Logger.Error("select-version failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if !recordFound(rec) {
		writeJSON(w, http.StatusOK, map[string]any{
			"code":    code,
			"message": selectionFailureMessage(code, zigVersionStr, zigVersion.Major, zigVersion.Minor),
		})
		return
	}

	rendered, err := manifest.Render(rec, h.PublicURLBase)
	if err != nil {
		h.Logger.Error("manifest render failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.Header().Set("Cache-Control", selectVersionCacheControl(zigVersion))
	writeJSON(w, http.StatusOK, rendered)
}

// recordFound reports whether rec is a real selection result rather than
// the zero value Select returns alongside a non-nil FailureCode path.
// ReleaseRecord has no sentinel "not found" flag of its own, so emptiness
// of ZLSVersion doubles as one: a real record always carries a parsed,
// non-zero-value ZLSVersion.
func recordFound(rec release.ReleaseRecord) bool {
	return !rec.ZLSVersion.IsZero()
}

func selectVersionCacheControl(zigVersion version.Version) string {
	if zigVersion.IsTagged() {
		return "public, max-age=3600"
	}
	return "public, max-age=300"
}

// handleIndexRedirect implements GET /v1/zls/index.json: a 301 to the
// blob store's public URL, never served from this process directly.
func (h *Handler) handleIndexRedirect(w http.ResponseWriter, r *http.Request) {
	if h.PublicURLBase == "" {
		writePlainError(w, http.StatusInternalServerError, "server misconfigured: no public URL base")
		return
	}
	http.Redirect(w, r, h.PublicURLBase+"/index.json", http.StatusMovedPermanently)
}

// publishArtifact is the wire shape of one entry of a publish request's
// artifacts map, keyed by file name.
type publishArtifact struct {
	Shasum  string `json:"shasum"`
	Size    int64  `json:"size"`
	Minisig string `json:"minisig,omitempty"`
}

// publishBody is the wire shape POST /v1/zls/publish accepts, matching
// the publish request entity described for the validator.
type publishBody struct {
	ZLSVersion               string                     `json:"zlsVersion"`
	ZigVersion               string                     `json:"zigVersion"`
	MinimumBuildZigVersion   string                     `json:"minimumBuildZigVersion"`
	MinimumRuntimeZigVersion string                     `json:"minimumRuntimeZigVersion"`
	Compatibility            string                     `json:"compatibility"`
	Artifacts                map[string]publishArtifact `json:"artifacts"`
}

// handlePublish implements POST /v1/zls/publish.
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	if h.APIToken == "" {
		writePlainError(w, http.StatusInternalServerError, "server misconfigured: no api token")
		return
	}

	ok, malformed := checkAdminAuth(r, h.APIToken)
	if malformed {
		writePlainError(w, http.StatusBadRequest, "authorization header must use the Basic scheme")
		return
	}
	if !ok {
		writeUnauthorized(w)
		return
	}

	var body publishBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writePlainError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}

	req, err := toValidateRequest(body)
	if err != nil {
		writePlainError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.Validator.Publish(r.Context(), req)
	if err != nil {
		writePublishError(w, err)
		return
	}

	if outcome.FreshArtifacts {
		rec := outcome.Record
		h.defer_(func() {
			if err := h.Materializer.Materialize(backgroundContext()); err != nil {
				h.Logger.Error("index materialization failed", zap.Error(err), zap.String("zlsVersion", rec.ZLSVersion.String()))
			}
		})
	}

	w.WriteHeader(http.StatusOK)
}

func toValidateRequest(body publishBody) (validate.Request, error) {
	artifacts := make([]validate.ArtifactUpload, 0, len(body.Artifacts))
	for name, a := range body.Artifacts {
		var sig []byte
		if a.Minisig != "" {
			decoded, err := base64.StdEncoding.DecodeString(a.Minisig)
			if err != nil {
				return validate.Request{}, errors.Wrapf(err, "artifacts[%s].minisig", name)
			}
			sig = decoded
		}
		artifacts = append(artifacts, validate.ArtifactUpload{
			FileName: name,
			Shasum:   a.Shasum,
			Size:     a.Size,
			Minisig:  sig,
		})
	}
	return validate.Request{
		ZLSVersion:               body.ZLSVersion,
		ZigVersion:               body.ZigVersion,
		MinimumBuildZigVersion:   body.MinimumBuildZigVersion,
		MinimumRuntimeZigVersion: body.MinimumRuntimeZigVersion,
		Compatibility:            body.Compatibility,
		Artifacts:                artifacts,
	}, nil
}
