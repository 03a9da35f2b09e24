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

// Package memory is an in-process store.Store backed by a map, used by
// tests; the serve command always opens store/sqlite.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/store"
)

// Store is an in-memory, mutex-guarded store.Store.
type Store struct {
	mu      sync.RWMutex
	records map[string]release.ReleaseRecord
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[string]release.ReleaseRecord)}
}

var _ store.Store = (*Store)(nil)

func (s *Store) AllTaggedDesc(ctx context.Context) ([]release.ReleaseRecord, error) {
	return s.allTagged(true), nil
}

func (s *Store) AllTaggedAsc(ctx context.Context) ([]release.ReleaseRecord, error) {
	return s.allTagged(false), nil
}

func (s *Store) allTagged(desc bool) []release.ReleaseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []release.ReleaseRecord
	for _, rec := range s.records {
		if rec.ZLSVersion.IsTagged() {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[j].ZLSVersion.Less(out[i].ZLSVersion)
		}
		return out[i].ZLSVersion.Less(out[j].ZLSVersion)
	})
	return out
}

func (s *Store) TaggedByMinor(ctx context.Context, major, minor int) ([]release.ReleaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []release.ReleaseRecord
	for _, rec := range s.records {
		v := rec.ZLSVersion
		if v.IsTagged() && v.Major == major && v.Minor == minor {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZLSVersion.Patch > out[j].ZLSVersion.Patch })
	return out, nil
}

func (s *Store) DevByMinor(ctx context.Context, major, minor int) ([]release.ReleaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []release.ReleaseRecord
	for _, rec := range s.records {
		v := rec.ZLSVersion
		if v.Dev && v.Major == major && v.Minor == minor {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZLSVersion.CommitHeight < out[j].ZLSVersion.CommitHeight })
	return out, nil
}

func (s *Store) DevByQuad(ctx context.Context, major, minor, patch, commitHeight int) (release.ReleaseRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		v := rec.ZLSVersion
		if v.Dev && v.Major == major && v.Minor == minor && v.Patch == patch && v.CommitHeight == commitHeight {
			return rec, true, nil
		}
	}
	return release.ReleaseRecord{}, false, nil
}

func (s *Store) GetByVersion(ctx context.Context, zlsVersion version.Version) (release.ReleaseRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[zlsVersion.String()]
	return rec, ok, nil
}

func (s *Store) UpsertRecord(ctx context.Context, rec release.ReleaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(rec)
}

func (s *Store) upsertLocked(rec release.ReleaseRecord) error {
	key := rec.ZLSVersion.String()
	if _, exists := s.records[key]; exists {
		return nil
	}
	s.records[key] = rec
	return nil
}

func (s *Store) PatchTestedZigVersions(ctx context.Context, p store.PatchTestedZigVersions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patchLocked(p)
}

func (s *Store) patchLocked(p store.PatchTestedZigVersions) error {
	key := p.ZLSVersion.String()
	rec, ok := s.records[key]
	if !ok {
		return &store.ErrNotFound{ZLSVersion: p.ZLSVersion}
	}
	if rec.TestedZigVersions == nil {
		rec.TestedZigVersions = make(map[string]release.Compatibility)
	}
	rec.TestedZigVersions[p.ZigVersion.String()] = p.Compat
	s.records[key] = rec
	return nil
}

func (s *Store) Batch(ctx context.Context, mutations []store.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range mutations {
		if m.Upsert != nil {
			if err := s.upsertLocked(*m.Upsert); err != nil {
				return err
			}
		}
		if m.Patch != nil {
			if err := s.patchLocked(*m.Patch); err != nil {
				return err
			}
		}
	}
	return nil
}
