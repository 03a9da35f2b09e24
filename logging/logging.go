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

// Package logging builds the zap.Logger used across the service: JSON
// output for serve, human-readable console output for one-shot CLI
// commands.
package logging

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/redact"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-shaped JSON logger at the given level, the form
// serve runs with.
func New(level string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewCLI builds a console-encoded logger for output a human reads on
// stderr directly rather than through a log aggregator. The one-shot
// commands (migrate, init-config, publish) report through pterm and do not
// call it.
func NewCLI(level string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func parseLevel(level string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("logging: invalid level %q: %w", level, err)
	}
	return lvl, nil
}

// RedactedAuthorization wraps an incoming Authorization header so request
// logs carry only its scheme ("Basic", "Bearer", ...), never the
// credentials that follow it.
type RedactedAuthorization string

var _ redact.SafeFormatter = RedactedAuthorization("")

// SafeFormat implements redact.SafeFormatter.
func (a RedactedAuthorization) SafeFormat(p redact.SafePrinter, _ rune) {
	scheme, _, found := strings.Cut(string(a), " ")
	if !found || scheme == "" {
		p.Print(redact.SafeString("(absent)"))
		return
	}
	p.Printf("%s <redacted>", redact.SafeString(scheme))
}

// String implements fmt.Stringer via redact.StringWithoutMarkers, the same
// pattern cockroachdb/version uses for its SafeFormatter types.
func (a RedactedAuthorization) String() string {
	return redact.StringWithoutMarkers(a)
}
