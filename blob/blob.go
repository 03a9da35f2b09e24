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

// Package blob defines the key/value object store that holds artifact
// tarballs, minisig sidecars, and the materialized index.json. The core
// algorithms never touch a filesystem or bucket directly; they go through
// this interface, with blob/fsblob as the reference implementation.
package blob

import "context"

// Object is a single stored value plus the metadata clients need to fetch
// and cache it correctly.
type Object struct {
	Key          string
	ContentType  string
	CacheControl string
	Data         []byte
}

// Store is the blob store the index materializer writes through.
type Store interface {
	// Put writes obj, overwriting any existing value at obj.Key.
	Put(ctx context.Context, obj Object) error

	// Get returns the object stored at key, or ok == false if absent.
	Get(ctx context.Context, key string) (obj Object, ok bool, err error)

	// Exists reports whether key has a stored object, without reading its
	// bytes.
	Exists(ctx context.Context, key string) (bool, error)
}

// MinisigKey returns the sidecar signature key for an artifact key.
func MinisigKey(artifactKey string) string { return artifactKey + ".minisig" }

// IndexKey is the well-known key the index materializer writes to.
const IndexKey = "index.json"
