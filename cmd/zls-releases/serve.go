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
	"net/http"

	"github.com/spf13/cobra"

	"github.com/zigtools/zls-releases/blob/fsblob"
	"github.com/zigtools/zls-releases/config"
	"github.com/zigtools/zls-releases/httpapi"
	"github.com/zigtools/zls-releases/index"
	"github.com/zigtools/zls-releases/logging"
	"github.com/zigtools/zls-releases/selector"
	"github.com/zigtools/zls-releases/store/sqlite"
	"github.com/zigtools/zls-releases/validate"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var forceMinisign bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			v := config.New()
			cfg, err := config.Load(v, opts.configFile)
			if err != nil {
				return err
			}
			if forceMinisign {
				cfg.ForceMinisign = true
			}
			if err := cfg.ValidateForServe(); err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			logger, err := logging.New(opts.logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			st, err := sqlite.Open(ctx, cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("serve: opening store: %w", err)
			}
			defer st.Close()

			blobs, err := fsblob.New(cfg.BlobRoot)
			if err != nil {
				return fmt.Errorf("serve: opening blob store: %w", err)
			}

			sel := &selector.Selector{Store: st}
			handler := &httpapi.Handler{
				Selector:  sel,
				Validator: &validate.Validator{Store: st, ForceMinisign: cfg.ForceMinisign},
				Materializer: &index.Materializer{
					Lister:        sel,
					Blobs:         blobs,
					PublicURLBase: cfg.PublicURLBase,
				},
				APIToken:      cfg.APIToken,
				PublicURLBase: cfg.PublicURLBase,
				Logger:        logger,
			}

			logger.Sugar().Infow("starting server", "addr", cfg.ListenAddr, "publicUrlBase", cfg.PublicURLBase)
			return http.ListenAndServe(cfg.ListenAddr, httpapi.NewRouter(handler))
		},
	}

	cmd.Flags().BoolVar(&forceMinisign, "force-minisign", false, "Reject publishes missing a .minisig sidecar, overriding config")

	return cmd
}
