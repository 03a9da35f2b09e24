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

// Package fsblob is a filesystem-backed blob.Store, used for local
// development and as the backend init-config sets up by default. It is not
// the CDN-fronted production blob store spec.md treats as external, but it
// honors the same interface and the same content-hash discipline.
package fsblob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/zigtools/zls-releases/blob"
)

type metadata struct {
	ContentType  string `json:"contentType"`
	CacheControl string `json:"cacheControl"`
}

// Store writes objects under Root, one data file plus one ".meta.json"
// sidecar per key.
type Store struct {
	Root string
}

var _ blob.Store = (*Store)(nil)

// New returns a Store rooted at dir, creating dir if it does not exist.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fsblob: create root %s: %w", dir, err)
	}
	return &Store{Root: dir}, nil
}

func (s *Store) dataPath(key string) string { return filepath.Join(s.Root, safeName(key)) }
func (s *Store) metaPath(key string) string { return s.dataPath(key) + ".meta.json" }

// safeName defeats path traversal by keeping only the key's last path
// element; blob keys are always flat file names ("zls-...", "index.json"),
// so a key with path separators is flattened into Root rather than
// rejected.
func safeName(key string) string {
	return filepath.Base(key)
}

func (s *Store) Put(ctx context.Context, obj blob.Object) error {
	// Write to a temporary file and rename it into place so readers never
	// see a partially written object.
	tmp := s.dataPath(obj.Key) + ".tmp"
	if err := os.WriteFile(tmp, obj.Data, 0o644); err != nil {
		return fmt.Errorf("fsblob: write %s: %w", obj.Key, err)
	}
	if err := os.Rename(tmp, s.dataPath(obj.Key)); err != nil {
		return fmt.Errorf("fsblob: rename %s into place: %w", obj.Key, err)
	}
	meta := metadata{ContentType: obj.ContentType, CacheControl: obj.CacheControl}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("fsblob: encode metadata for %s: %w", obj.Key, err)
	}
	if err := os.WriteFile(s.metaPath(obj.Key), metaBytes, 0o644); err != nil {
		return fmt.Errorf("fsblob: write metadata for %s: %w", obj.Key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (blob.Object, bool, error) {
	data, err := os.ReadFile(s.dataPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return blob.Object{}, false, nil
		}
		return blob.Object{}, false, fmt.Errorf("fsblob: read %s: %w", key, err)
	}

	var meta metadata
	if metaBytes, err := os.ReadFile(s.metaPath(key)); err == nil {
		_ = json.Unmarshal(metaBytes, &meta)
	}

	return blob.Object{
		Key:          key,
		Data:         data,
		ContentType:  meta.ContentType,
		CacheControl: meta.CacheControl,
	}, true, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.dataPath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("fsblob: stat %s: %w", key, err)
}

// VerifyShasum re-derives the sha256 content hash of data and compares it
// against wantShasum (64 lowercase hex characters, no scheme prefix), the
// same way relcore/model/release.ReleaseArtifact validates the shasum's
// shape. Put does not call it; it is a standalone check.
func VerifyShasum(data []byte, wantShasum string) error {
	want, err := v1.NewHash("sha256:" + wantShasum)
	if err != nil {
		return fmt.Errorf("fsblob: malformed expected shasum: %w", err)
	}
	got, _, err := v1.SHA256(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("fsblob: hash upload: %w", err)
	}
	if got != want {
		return fmt.Errorf("fsblob: shasum mismatch: got %s, want %s", got, want)
	}
	return nil
}
