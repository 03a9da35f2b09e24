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

// Package index materializes the tagged-release listing into the
// well-known index.json blob. Materialization runs as deferred work after
// a publish response has already been sent, and is idempotent: rerunning
// it against unchanged store state always produces byte-identical output.
package index

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/zigtools/zls-releases/blob"
	"github.com/zigtools/zls-releases/manifest"
	"github.com/zigtools/zls-releases/relcore/model/release"
)

// indexCacheControl is deliberately long: index.json changes only on
// publish, and the materializer is the only writer, so staleness is
// bounded by how promptly materialization is retried, not by this value.
const indexCacheControl = "public, max-age=3600"

// lister is the read dependency Materializer needs from the selector; kept
// narrow so tests can fake it without standing up a full store.
type lister interface {
	ListAllTagged(ctx context.Context) ([]release.ReleaseRecord, error)
}

// Materializer rebuilds index.json from the current tagged-release set and
// writes it to Blobs.
type Materializer struct {
	Lister        lister
	Blobs         blob.Store
	PublicURLBase string
}

// Materialize fetches every tagged record, renders the index, and writes it
// atomically at blob.IndexKey. Callers invoke this from deferred work after
// a publish that created a new tagged record or a dev record's first
// artifacts; it is safe to retry on failure since the write is a full
// overwrite keyed by blob.IndexKey, not an incremental patch.
func (m *Materializer) Materialize(ctx context.Context) error {
	records, err := m.Lister.ListAllTagged(ctx)
	if err != nil {
		return errors.Wrap(err, "index: listing tagged records")
	}

	idx, err := manifest.RenderIndex(records, m.PublicURLBase)
	if err != nil {
		return errors.Wrap(err, "index: rendering")
	}

	data, err := json.Marshal(idx)
	if err != nil {
		return errors.Wrap(err, "index: marshaling")
	}

	return m.Blobs.Put(ctx, blob.Object{
		Key:          blob.IndexKey,
		ContentType:  "application/json",
		CacheControl: indexCacheControl,
		Data:         data,
	})
}
