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
	"crypto/subtle"
	"net/http"
)

// adminUsername is the fixed Basic auth username publish accepts; only the
// password (the API token) varies per deployment.
const adminUsername = "admin"

// checkAdminAuth validates the Authorization header against token using a
// timing-safe comparison. ok is false for a missing header, a malformed
// scheme, or bad credentials; malformed reports whether the header was
// present but not parseable as Basic, which the caller maps to 400 rather
// than 401.
func checkAdminAuth(r *http.Request, token string) (ok, malformed bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return false, false
	}

	user, pass, hasBasic := r.BasicAuth()
	if !hasBasic {
		return false, true
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(token)) == 1
	return userOK && passOK, false
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
}
