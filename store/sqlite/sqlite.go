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

// Package sqlite is the SQLite-backed store.Store, matching the schema and
// index shape in the persisted-state design: a single ZLSReleases table
// with the full record serialized as JSON, and two indexes chosen so that
// every store.Store query hits one of them.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zigtools/zls-releases/relcore/model/release"
	"github.com/zigtools/zls-releases/relcore/model/version"
	"github.com/zigtools/zls-releases/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS ZLSReleases (
	ZLSVersion TEXT PRIMARY KEY,
	Major      INTEGER NOT NULL,
	Minor      INTEGER NOT NULL,
	Patch      INTEGER NOT NULL,
	IsRelease  INTEGER NOT NULL,
	BuildId    INTEGER,
	JsonData   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_zlsreleases_tagged
	ON ZLSReleases (IsRelease, Major, Minor, Patch);

CREATE INDEX IF NOT EXISTS idx_zlsreleases_dev
	ON ZLSReleases (Major, Minor, BuildId)
	WHERE IsRelease = 0;
`

// Store is a SQLite-backed store.Store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at dsn and ensures
// the ZLSReleases schema and indexes exist.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

var _ store.Store = (*Store)(nil)

func scanRecords(rows *sql.Rows) ([]release.ReleaseRecord, error) {
	defer rows.Close()
	var out []release.ReleaseRecord
	for rows.Next() {
		var jsonData string
		if err := rows.Scan(&jsonData); err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		var rec release.ReleaseRecord
		if err := json.Unmarshal([]byte(jsonData), &rec); err != nil {
			return nil, fmt.Errorf("sqlite: decode JsonData: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// AllTaggedDesc hits idx_zlsreleases_tagged via the IsRelease prefix and
// the (Major, Minor, Patch) ordering.
func (s *Store) AllTaggedDesc(ctx context.Context) ([]release.ReleaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT JsonData FROM ZLSReleases
		WHERE IsRelease = 1
		ORDER BY Major DESC, Minor DESC, Patch DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: AllTaggedDesc: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) AllTaggedAsc(ctx context.Context) ([]release.ReleaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT JsonData FROM ZLSReleases
		WHERE IsRelease = 1
		ORDER BY Major ASC, Minor ASC, Patch ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: AllTaggedAsc: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) TaggedByMinor(ctx context.Context, major, minor int) ([]release.ReleaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT JsonData FROM ZLSReleases
		WHERE IsRelease = 1 AND Major = ? AND Minor = ?
		ORDER BY Patch DESC`, major, minor)
	if err != nil {
		return nil, fmt.Errorf("sqlite: TaggedByMinor: %w", err)
	}
	return scanRecords(rows)
}

// DevByMinor hits idx_zlsreleases_dev: the partial index on
// (Major, Minor, BuildId) WHERE IsRelease = 0.
func (s *Store) DevByMinor(ctx context.Context, major, minor int) ([]release.ReleaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT JsonData FROM ZLSReleases
		WHERE IsRelease = 0 AND Major = ? AND Minor = ?
		ORDER BY BuildId ASC`, major, minor)
	if err != nil {
		return nil, fmt.Errorf("sqlite: DevByMinor: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) DevByQuad(ctx context.Context, major, minor, patch, commitHeight int) (release.ReleaseRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT JsonData FROM ZLSReleases
		WHERE IsRelease = 0 AND Major = ? AND Minor = ? AND Patch = ? AND BuildId = ?`,
		major, minor, patch, commitHeight)

	var jsonData string
	if err := row.Scan(&jsonData); err != nil {
		if err == sql.ErrNoRows {
			return release.ReleaseRecord{}, false, nil
		}
		return release.ReleaseRecord{}, false, fmt.Errorf("sqlite: DevByQuad: %w", err)
	}
	var rec release.ReleaseRecord
	if err := json.Unmarshal([]byte(jsonData), &rec); err != nil {
		return release.ReleaseRecord{}, false, fmt.Errorf("sqlite: decode JsonData: %w", err)
	}
	return rec, true, nil
}

func (s *Store) GetByVersion(ctx context.Context, zlsVersion version.Version) (release.ReleaseRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT JsonData FROM ZLSReleases WHERE ZLSVersion = ?`, zlsVersion.String())

	var jsonData string
	if err := row.Scan(&jsonData); err != nil {
		if err == sql.ErrNoRows {
			return release.ReleaseRecord{}, false, nil
		}
		return release.ReleaseRecord{}, false, fmt.Errorf("sqlite: GetByVersion: %w", err)
	}
	var rec release.ReleaseRecord
	if err := json.Unmarshal([]byte(jsonData), &rec); err != nil {
		return release.ReleaseRecord{}, false, fmt.Errorf("sqlite: decode JsonData: %w", err)
	}
	return rec, true, nil
}

func (s *Store) UpsertRecord(ctx context.Context, rec release.ReleaseRecord) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return upsertRecordTx(ctx, tx, rec)
	})
}

func upsertRecordTx(ctx context.Context, tx *sql.Tx, rec release.ReleaseRecord) error {
	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sqlite: encode record: %w", err)
	}

	var buildID any
	isRelease := 0
	if rec.ZLSVersion.IsTagged() {
		isRelease = 1
	} else {
		buildID = rec.ZLSVersion.CommitHeight
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ZLSReleases (ZLSVersion, Major, Minor, Patch, IsRelease, BuildId, JsonData)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ZLSVersion) DO NOTHING`,
		rec.ZLSVersion.String(), rec.ZLSVersion.Major, rec.ZLSVersion.Minor, rec.ZLSVersion.Patch,
		isRelease, buildID, string(jsonData))
	if err != nil {
		return fmt.Errorf("sqlite: upsert record: %w", err)
	}
	return nil
}

func (s *Store) PatchTestedZigVersions(ctx context.Context, p store.PatchTestedZigVersions) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return patchTestedZigVersionsTx(ctx, tx, p)
	})
}

func patchTestedZigVersionsTx(ctx context.Context, tx *sql.Tx, p store.PatchTestedZigVersions) error {
	row := tx.QueryRowContext(ctx, `SELECT JsonData FROM ZLSReleases WHERE ZLSVersion = ?`, p.ZLSVersion.String())

	var jsonData string
	if err := row.Scan(&jsonData); err != nil {
		if err == sql.ErrNoRows {
			return &store.ErrNotFound{ZLSVersion: p.ZLSVersion}
		}
		return fmt.Errorf("sqlite: patch lookup: %w", err)
	}

	var rec release.ReleaseRecord
	if err := json.Unmarshal([]byte(jsonData), &rec); err != nil {
		return fmt.Errorf("sqlite: decode JsonData: %w", err)
	}
	if rec.TestedZigVersions == nil {
		rec.TestedZigVersions = make(map[string]release.Compatibility)
	}
	rec.TestedZigVersions[p.ZigVersion.String()] = p.Compat

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sqlite: encode record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE ZLSReleases SET JsonData = ? WHERE ZLSVersion = ?`, string(updated), p.ZLSVersion.String()); err != nil {
		return fmt.Errorf("sqlite: patch update: %w", err)
	}
	return nil
}

// Batch applies every mutation inside one transaction.
func (s *Store) Batch(ctx context.Context, mutations []store.Mutation) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, m := range mutations {
			if m.Upsert != nil {
				if err := upsertRecordTx(ctx, tx, *m.Upsert); err != nil {
					return err
				}
			}
			if m.Patch != nil {
				if err := patchTestedZigVersionsTx(ctx, tx, *m.Patch); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}
