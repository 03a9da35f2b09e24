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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// newPublishCommand posts a locally-assembled publish request body to a
// running server, for manual use or from a CI job that just built and
// shasum'd a ZLS release.
func newPublishCommand(opts *rootOptions) *cobra.Command {
	var (
		serverURL string
		token     string
		bodyPath  string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "POST a publish request body to a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				return fmt.Errorf("publish: --server is required")
			}
			if token == "" {
				return fmt.Errorf("publish: --token is required")
			}

			var body io.Reader
			if bodyPath == "-" || bodyPath == "" {
				body = os.Stdin
			} else {
				f, err := os.Open(bodyPath)
				if err != nil {
					return fmt.Errorf("publish: %w", err)
				}
				defer f.Close()
				body = f
			}

			raw, err := io.ReadAll(body)
			if err != nil {
				return fmt.Errorf("publish: reading request body: %w", err)
			}
			// Reject obviously malformed input locally before spending a
			// round trip on it.
			if !json.Valid(raw) {
				return fmt.Errorf("publish: request body is not valid JSON")
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, serverURL+"/v1/zls/publish", bytes.NewReader(raw))
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			req.SetBasicAuth("admin", token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			defer resp.Body.Close()

			respBody, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				pterm.Error.Printf("server responded %d: %s\n", resp.StatusCode, respBody)
				return fmt.Errorf("publish: rejected")
			}

			pterm.Success.Println("publish accepted")
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of the running server, e.g. https://releases.example.com")
	cmd.Flags().StringVar(&token, "token", "", "Admin API token")
	cmd.Flags().StringVar(&bodyPath, "file", "-", "Path to the publish request JSON body, or - for stdin")

	return cmd
}
