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

// Package manifest renders ReleaseRecords into the JSON shape clients
// fetch: a single-release manifest from the selector, or the multi-release
// index the materializer writes to the blob store.
package manifest

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
)

// archFirstFloor is the ZLS version at and above which artifact file names
// switch from "zls-<os>-<arch>-<version>.<ext>" to
// "zls-<arch>-<os>-<version>.<ext>". The manifest key, "<arch>-<os>", never
// changes; only the tarball URL's file-name portion does.
var archFirstFloor = version.Version{Major: 0, Minor: 15, Patch: 0}

// Entry is one platform's download descriptor within a manifest.
type Entry struct {
	Tarball string `json:"tarball"`
	Shasum  string `json:"shasum"`
	Size    string `json:"size"`
}

// Release is the single-release manifest served by select-version.
type Release struct {
	Version string
	Date    string
	Entries map[string]Entry
}

// MarshalJSON flattens Entries alongside Version and Date at the top level,
// matching the wire shape "{version, date, <arch>-<os>: {...}, ...}".
func (r Release) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Entries)+2)
	flat["version"] = r.Version
	flat["date"] = r.Date
	for k, v := range r.Entries {
		flat[k] = v
	}
	return json.Marshal(flat)
}

// IndexItem is one ZLS version's entry within the multi-release index.
type IndexItem struct {
	Date    string
	Entries map[string]Entry
}

// Index is the full tagged-release listing rendered to index.json.
type Index map[string]IndexItem

// MarshalJSON renders each IndexItem as "{date, <arch>-<os>: {...}, ...}"
// under its ZLS version key.
func (idx Index) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(idx))
	for ver, item := range idx {
		body := make(map[string]any, len(item.Entries)+1)
		body["date"] = item.Date
		for k, v := range item.Entries {
			body[k] = v
		}
		flat[ver] = body
	}
	return json.Marshal(flat)
}

// Render builds the single-release manifest for rec, with tarball URLs
// rooted at publicURLBase (no trailing slash).
func Render(rec release.ReleaseRecord, publicURLBase string) (Release, error) {
	entries, err := entriesFor(rec, publicURLBase)
	if err != nil {
		return Release{}, err
	}
	return Release{
		Version: rec.ZLSVersion.String(),
		Date:    rec.Date.UTC().Format("2006-01-02"),
		Entries: entries,
	}, nil
}

// RenderIndex builds the multi-release index from tagged records in
// descending (major, minor, patch) order, the shape selector.ListAllTagged
// returns.
func RenderIndex(records []release.ReleaseRecord, publicURLBase string) (Index, error) {
	idx := make(Index, len(records))
	for _, rec := range records {
		entries, err := entriesFor(rec, publicURLBase)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest: rendering index entry for %s", rec.ZLSVersion)
		}
		idx[rec.ZLSVersion.String()] = IndexItem{
			Date:    rec.Date.UTC().Format("2006-01-02"),
			Entries: entries,
		}
	}
	return idx, nil
}

func entriesFor(rec release.ReleaseRecord, publicURLBase string) (map[string]Entry, error) {
	entries := make(map[string]Entry, len(rec.Artifacts))
	for _, a := range rec.Artifacts {
		if a.Extension == release.ExtTarGz {
			continue
		}
		key := a.Arch + "-" + a.OS
		if _, dup := entries[key]; dup {
			return nil, errors.Newf("manifest: duplicate manifest key %q for zls version %s", key, rec.ZLSVersion)
		}
		entries[key] = Entry{
			Tarball: publicURLBase + "/" + fileName(a),
			Shasum:  a.FileShasum,
			Size:    strconv.FormatInt(a.FileSize, 10),
		}
	}
	return entries, nil
}

// fileName picks the pre- or post-0.15.0 file-name ordering based on the
// artifact's own version (equal to its owning record's ZLS version, by
// ReleaseRecord.Validate's invariant).
func fileName(a release.ReleaseArtifact) string {
	if a.Version.Compare(archFirstFloor) >= 0 {
		return a.FileNameArchFirst()
	}
	return a.FileName()
}
