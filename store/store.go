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

// Package store defines the persistent mapping from a ZLS version to its
// release record. The core algorithms in validate and selector depend only
// on this interface; store/memory and store/sqlite are the two concrete
// backends.
package store

import (
	"context"

	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
)

// Mutation is one write operation accepted by Batch.
type Mutation struct {
	// Upsert, if non-nil, inserts rec if absent. An existing row for the
	// same ZLS version is left untouched; upserts never overwrite the
	// main row.
	Upsert *release.ReleaseRecord

	// Patch, if non-nil, merges into the named record's TestedZigVersions.
	Patch *PatchTestedZigVersions
}

// PatchTestedZigVersions merges Compat into ZLSVersion's TestedZigVersions
// under the key ZigVersion.
type PatchTestedZigVersions struct {
	ZLSVersion version.Version
	ZigVersion version.Version
	Compat     release.Compatibility
}

// Store is the persistent mapping from ZLS version to release record.
//
// Every query method returns records in the order documented on the
// method; implementations must preserve that order exactly, since the
// selector and the index materializer depend on it rather than re-sorting.
type Store interface {
	// AllTaggedDesc returns every tagged record ordered by
	// (major, minor, patch) descending.
	AllTaggedDesc(ctx context.Context) ([]release.ReleaseRecord, error)

	// AllTaggedAsc returns every tagged record ordered by
	// (major, minor, patch) ascending.
	AllTaggedAsc(ctx context.Context) ([]release.ReleaseRecord, error)

	// TaggedByMinor returns tagged records with the given major and minor,
	// ordered by patch descending.
	TaggedByMinor(ctx context.Context, major, minor int) ([]release.ReleaseRecord, error)

	// DevByMinor returns development-build records with the given major
	// and minor, ordered by commit height ascending.
	DevByMinor(ctx context.Context, major, minor int) ([]release.ReleaseRecord, error)

	// DevByQuad returns the development-build record with the exact
	// (major, minor, patch, commitHeight), or ok == false if none exists.
	DevByQuad(ctx context.Context, major, minor, patch, commitHeight int) (rec release.ReleaseRecord, ok bool, err error)

	// GetByVersion returns the record for the exact ZLS version, or
	// ok == false if none exists.
	GetByVersion(ctx context.Context, zlsVersion version.Version) (rec release.ReleaseRecord, ok bool, err error)

	// UpsertRecord inserts rec if no record exists for rec.ZLSVersion.
	// It is a no-op, not an error, if one already does.
	UpsertRecord(ctx context.Context, rec release.ReleaseRecord) error

	// PatchTestedZigVersions merges the given compatibility datapoint into
	// the named record's TestedZigVersions, overwriting any existing entry
	// for the same Zig version.
	PatchTestedZigVersions(ctx context.Context, p PatchTestedZigVersions) error

	// Batch applies every mutation atomically: either all of them are
	// visible to subsequent reads, or none are. The publish validator
	// relies on this to land a new record together with its own
	// tested-version datapoint in one commit.
	Batch(ctx context.Context, mutations []Mutation) error
}

// ErrNotFound is returned by store implementations in contexts where an
// error (rather than an ok == false return) is the more natural signal,
// for example from helper methods layered on top of Store.
type ErrNotFound struct {
	ZLSVersion version.Version
}

func (e *ErrNotFound) Error() string {
	return "store: no record for zls version " + e.ZLSVersion.String()
}
