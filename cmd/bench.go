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
	benchOutputManifestDir string
	benchCollect           bool
)

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVarP(&benchOutputManifestDir, "output-manifest-dir", "o", "", "Save generated Kubernetes manifests to this directory instead of applying them.")
	benchCmd.Flags().BoolVar(&benchCollect, "collect", false, "Upload the results directory after the benchmark slices finish.")
}

var benchCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Runs the benchmark slices against an existing image.",
	Long: `The 'benchmark' command runs every configured benchmark slice
concurrently against the image recorded in the run environment artifact
written by 'build-image'. A failing slice does not stop its siblings.`,
	Run:          runBenchCmd,
	SilenceUsage: true,
}

func runBenchCmd(cmd *cobra.Command, args []string) {
	logging.Info("Executing scorecard benchmark command...")

	cfg := loadConfig()
	if cmd.Flags().Changed("output-manifest-dir") {
		cfg.Benchmark.OutputManifestDir = benchOutputManifestDir
	}

	orch, err := scorecard.New()
	if err != nil {
		logging.Fatal("Failed to create scorecard orchestrator: %v", err)
	}

	ctx := context.Background()
	if err := orch.RunBenchmarks(ctx, cfg); err != nil {
		logging.Fatal("scorecard benchmark failed: %v", err)
	}

	if benchCollect {
		if err := orch.CollectResults(ctx, cfg); err != nil {
			logging.Fatal("Result collection failed: %v", err)
		}
	}
	color.Green("Benchmark slices complete.")
}
