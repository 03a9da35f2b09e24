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

// Package validate implements the publish path: turning an untrusted
// publish request into an atomic store mutation, or rejecting it with a
// typed PublishError a caller can map straight to a wire message.
package validate

// ArtifactUpload is one artifact entry of a publish request, keyed by its
// file name on the wire.
type ArtifactUpload struct {
	FileName string
	Shasum   string
	Size     int64
	// Minisig holds the ".minisig" sidecar bytes for this artifact, or is
	// nil if none was supplied. Signature presence must be all-or-nothing
	// across the artifact set; see Validator.ForceMinisign.
	Minisig []byte
}

// Request is the publish request accepted over the wire: the five scalar
// fields plus the artifact set, all still as unparsed strings.
type Request struct {
	ZLSVersion               string
	ZigVersion               string
	MinimumBuildZigVersion   string
	MinimumRuntimeZigVersion string
	Compatibility            string
	Artifacts                []ArtifactUpload
}
