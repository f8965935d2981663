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

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scorecard-toolkit/pkg/logging"
	"scorecard-toolkit/pkg/orchestrator/scorecard"
)

var (
	buildCommitSHA    string
	buildDisableCache bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildCommitSHA, "commit-sha", "", "Commit to stamp and tag the benchmark image with. Overrides build.commit_sha from the config.")
	buildCmd.Flags().BoolVar(&buildDisableCache, "no-cache", false, "Force a fresh image build.")
}

var buildCmd = &cobra.Command{
	Use:   "build-image",
	Short: "Builds and pushes the benchmark image.",
	Long: `The 'build-image' command builds the benchmark container image on top of
the configured base image, pushes it to the registry, mints a new run
identifier and writes the run environment artifact consumed by the
'benchmark' command.`,
	Run:          runBuildCmd,
	SilenceUsage: true,
}

func runBuildCmd(cmd *cobra.Command, args []string) {
	logging.Info("Executing scorecard build-image command...")

	cfg := loadConfig()
	if cmd.Flags().Changed("commit-sha") {
		cfg.Build.CommitSHA = buildCommitSHA
	}
	if cmd.Flags().Changed("no-cache") {
		cfg.Build.DisableCache = buildDisableCache
	}

	orch, err := scorecard.New()
	if err != nil {
		logging.Fatal("Failed to create scorecard orchestrator: %v", err)
	}

	runID, imageRef, err := orch.BuildImage(context.Background(), cfg, orch.PublishedCredential(cfg))
	if err != nil {
		logging.Fatal("Image build failed: %v", err)
	}
	color.Green("Built %s (run %s)", imageRef, runID)
}
