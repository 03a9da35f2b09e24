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

// Command zls-releases runs and administers the ZLS release-coordination
// service: serving version selection and publish over HTTP, migrating its
// SQLite store, and publishing a build from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", root.CommandPath(), err)
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "zls-releases",
		Short: "Coordinate ZLS release metadata: select, validate, publish",
		Long: "zls-releases tracks which ZLS build to hand a given Zig version, validates\n" +
			"new publishes against the release data model's invariants, and serves\n" +
			"both over HTTP.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "zls-releases.yaml", "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newInitConfigCommand(opts),
		newVersionCommand(),
		newPublishCommand(opts),
	)

	return root
}
