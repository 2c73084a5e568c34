/*
   Copyright 2025 The DIRPX Authors.

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

// Package cli implements the spx command line tool.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"dirpx.dev/spx/apis"
	"dirpx.dev/spx/config"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	// configPath is the optional YAML config file.
	configPath string
	// version is printed by the version subcommand.
	version string
}

// config returns the effective configuration.
func (o *rootOptions) config() (apis.Config, error) {
	if o.configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(o.configPath)
}

// NewRootCmd builds the spx command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	cmd := &cobra.Command{
		Use:   "spx",
		Short: "Inspect spx extension resources",
		Long: `spx checks the extension resource files that bind names to
implementation identifiers, and prints the configuration the registry
would run with.`,
		// Findings and bad arguments are reported by the commands themselves.
		SilenceUsage: true,
		Version:      version,
	}
	cmd.SetVersionTemplate(`{{printf "spx version %s\n" .Version}}`)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default: built-in defaults)")

	cmd.AddCommand(newLintCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd(opts))
	return cmd
}

// Execute runs the spx command and exits non-zero on error.
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}
