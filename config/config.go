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

// Package config loads the service's runtime configuration from a config
// file, environment variables, and built-in defaults, in viper's usual
// precedence order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Config is every setting the serve, migrate and init-config commands need.
type Config struct {
	// APIToken authenticates POST /v1/zls/publish's Basic auth. Required
	// for publishing; missing it is a 500 at request time per the HTTP
	// surface, not a startup failure, since a read-only deployment (no
	// publishing) can omit it.
	APIToken string

	// PublicURLBase roots every tarball URL the manifest formatter
	// emits, and is the redirect target for GET /v1/zls/index.json. Must
	// not carry a trailing slash. Missing it is a 500 at request time per
	// the HTTP surface, not a startup failure.
	PublicURLBase string

	// ForceMinisign requires every publish to carry minisig sidecars
	// regardless of what the request's own artifacts imply.
	ForceMinisign bool

	// SQLiteDSN is the database/sql data source name store/sqlite opens.
	SQLiteDSN string

	// BlobRoot is the filesystem root blob/fsblob writes under.
	BlobRoot string

	// ListenAddr is the address the HTTP server binds.
	ListenAddr string

	// LogLevel is a zapcore.Level name: "debug", "info", "warn", "error".
	LogLevel string
}

// New returns a viper instance pre-seeded with this service's defaults and
// environment variable bindings. Callers pass it to Load, which reads the
// optional config file into it and decodes the result.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("api_token", "")
	v.SetDefault("public_url_base", "")
	v.SetDefault("force_minisign", false)
	v.SetDefault("sqlite_dsn", "zls-releases.db")
	v.SetDefault("blob_root", "./blobs")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("ZLS_RELEASES")
	v.AutomaticEnv()

	return v
}

// Load reads configFile into v if it exists (a missing path is not an
// error; serve can run on environment variables and defaults alone), then
// decodes the result into a Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
			}
		}
	}

	return &Config{
		APIToken:      v.GetString("api_token"),
		PublicURLBase: strings.TrimSuffix(v.GetString("public_url_base"), "/"),
		ForceMinisign: v.GetBool("force_minisign"),
		SQLiteDSN:     v.GetString("sqlite_dsn"),
		BlobRoot:      v.GetString("blob_root"),
		ListenAddr:    v.GetString("listen_addr"),
		LogLevel:      v.GetString("log_level"),
	}, nil
}

// ValidateForServe checks every setting the serve command requires,
// aggregating all violations instead of stopping at the first, so an
// operator fixing a fresh deployment sees every missing value in one pass.
//
// api_token and public_url_base are deliberately not checked here: the HTTP
// surface defers both to request time, returning 500 from the affected
// handlers rather than refusing to start, so a read-only or not-yet-public
// deployment can still serve. See APIToken's doc comment.
func (c *Config) ValidateForServe() error {
	var err error
	if c.SQLiteDSN == "" {
		err = multierr.Append(err, fmt.Errorf("config: sqlite_dsn is required"))
	}
	if c.BlobRoot == "" {
		err = multierr.Append(err, fmt.Errorf("config: blob_root is required"))
	}
	if c.ListenAddr == "" {
		err = multierr.Append(err, fmt.Errorf("config: listen_addr is required"))
	}
	return err
}

// ValidateForMigrate checks the settings the migrate command needs: just a
// database to open.
func (c *Config) ValidateForMigrate() error {
	if c.SQLiteDSN == "" {
		return fmt.Errorf("config: sqlite_dsn is required")
	}
	return nil
}
