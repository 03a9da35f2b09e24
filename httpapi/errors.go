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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	relerrors "github.com/zigtools/zls-releases/relcore/errors"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/validate"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writePlainError writes a short plain-text message with the given status,
// the shape used for malformed requests that never reach validation.
func writePlainError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// writePublishError maps a Validate/Publish failure to its HTTP response.
// *relerrors.UnsupportedMajorError gets the dedicated 418; every
// *validate.PublishError gets 400 with its Kind and Reason; anything else
// (a store failure) is an unexpected 500.
func writePublishError(w http.ResponseWriter, err error) {
	var unsupportedMajor *relerrors.UnsupportedMajorError
	if errors.As(err, &unsupportedMajor) {
		writeJSON(w, http.StatusTeapot, map[string]string{
			"error": unsupportedMajor.Error(),
		})
		return
	}

	var publishErr *validate.PublishError
	if errors.As(err, &publishErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"kind":  string(publishErr.Kind),
			"error": publishErr.Reason,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}

// selectionFailureMessage renders the exact message templates the HTTP
// surface documents for each FailureCode.
func selectionFailureMessage(code release.FailureCode, zigVersion string, major, minor int) string {
	switch code {
	case release.Unsupported:
		return "Zig " + zigVersion + " is not supported by ZLS"
	case release.DevelopmentBuildUnsupported:
		return "No builds for the " + strconv.Itoa(major) + "." + strconv.Itoa(minor) + " release cycle are currently available"
	case release.DevelopmentBuildIncompatible:
		return "Zig " + zigVersion + " has no compatible ZLS build (yet)"
	case release.TaggedReleaseIncompatible:
		return "ZLS " + strconv.Itoa(major) + "." + strconv.Itoa(minor) + " has not been released yet"
	default:
		return "Zig " + zigVersion + " is not supported by ZLS"
	}
}
