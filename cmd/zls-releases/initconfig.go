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

package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initConfigAnswers mirrors the subset of config.Config an operator
// chooses interactively; the rest keep their built-in defaults.
type initConfigAnswers struct {
	APIToken      string `yaml:"api_token"`
	PublicURLBase string `yaml:"public_url_base"`
	ForceMinisign bool   `yaml:"force_minisign"`
	SQLiteDSN     string `yaml:"sqlite_dsn"`
	BlobRoot      string `yaml:"blob_root"`
	ListenAddr    string `yaml:"listen_addr"`
}

func newInitConfigCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Interactively write a new config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := initConfigAnswers{
				SQLiteDSN:  "zls-releases.db",
				BlobRoot:   "./blobs",
				ListenAddr: ":8080",
			}

			questions := []*survey.Question{
				{
					Name:     "APIToken",
					Prompt:   &survey.Password{Message: "Admin API token for POST /v1/zls/publish:"},
					Validate: survey.Required,
				},
				{
					Name:     "PublicURLBase",
					Prompt:   &survey.Input{Message: "Public URL base (no trailing slash):"},
					Validate: survey.Required,
				},
				{
					Name:   "ForceMinisign",
					Prompt: &survey.Confirm{Message: "Require a .minisig sidecar on every publish?", Default: false},
				},
				{
					Name:    "SQLiteDSN",
					Prompt:  &survey.Input{Message: "SQLite DSN:", Default: answers.SQLiteDSN},
					Default: answers.SQLiteDSN,
				},
				{
					Name:    "BlobRoot",
					Prompt:  &survey.Input{Message: "Blob storage root:", Default: answers.BlobRoot},
					Default: answers.BlobRoot,
				},
				{
					Name:    "ListenAddr",
					Prompt:  &survey.Input{Message: "Listen address:", Default: answers.ListenAddr},
					Default: answers.ListenAddr,
				},
			}

			if err := survey.Ask(questions, &answers); err != nil {
				return fmt.Errorf("init-config: %w", err)
			}

			data, err := yaml.Marshal(answers)
			if err != nil {
				return fmt.Errorf("init-config: encoding: %w", err)
			}
			if err := os.WriteFile(opts.configFile, data, 0o600); err != nil {
				return fmt.Errorf("init-config: writing %s: %w", opts.configFile, err)
			}

			pterm.Success.Printf("Wrote %s\n", opts.configFile)
			return nil
		},
	}
}
