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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/zigtools/zls-releases/config"
	"github.com/zigtools/zls-releases/store/sqlite"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the SQLite schema and indexes if they don't exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			v := config.New()
			cfg, err := config.Load(v, opts.configFile)
			if err != nil {
				return err
			}
			if err := cfg.ValidateForMigrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			st, err := sqlite.Open(ctx, cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer st.Close()

			pterm.Success.Printf("Schema and indexes are up to date at %s\n", cfg.SQLiteDSN)
			return nil
		},
	}
}
