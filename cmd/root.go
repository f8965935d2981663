// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd defines the scorecard command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"scorecard-toolkit/pkg/config"
	"scorecard-toolkit/pkg/logging"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Runs the relax benchmark scorecard pipeline.",
	Long: `scorecard orchestrates the relax benchmark pipeline: refreshing the
container registry credential, building and pushing the benchmark image,
running the benchmark slices as GPU jobs, and uploading the collected
results to cloud storage.

Each stage is also exposed as its own subcommand so that a single stage
can be re-run without repeating the whole pipeline.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the pipeline configuration YAML file. SCORECARD_* environment variables override file values.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads and validates the pipeline configuration for commands
// that run a pipeline stage.
func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		logging.Fatal("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal("Invalid configuration: %v", err)
	}
	return cfg
}

// loadConfigLoose loads the configuration without full-pipeline validation,
// for commands that only touch a subset of the config.
func loadConfigLoose() (*config.Config, error) {
	return config.Load(configFile)
}
