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

// Package scorecard wires the pipeline stages together: guarded credential
// refresh, image build with run-identifier minting, the four concurrent
// benchmark jobs, and result collection.
package scorecard

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"scorecard-toolkit/pkg/benchmark"
	"scorecard-toolkit/pkg/config"
	"scorecard-toolkit/pkg/imagebuilder"
	"scorecard-toolkit/pkg/logging"
	"scorecard-toolkit/pkg/orchestrator"
	"scorecard-toolkit/pkg/pipeline"
	"scorecard-toolkit/pkg/registry"
	"scorecard-toolkit/pkg/results"
)

// Orchestrator implements orchestrator.Orchestrator for the relax scorecard
// pipeline.
type Orchestrator struct {
	fs afero.Fs
}

// New creates and returns a new scorecard Orchestrator instance.
func New() (*Orchestrator, error) {
	return &Orchestrator{fs: afero.NewOsFs()}, nil
}

// Execute runs the full pipeline. Stage order is fixed: prepare-auth
// (guarded by the trigger), build-docker, test, collect-results. A failing
// stage halts everything after it.
func (o *Orchestrator) Execute(ctx context.Context, def orchestrator.Definition) error {
	cfg := def.Config

	// Written by the prepare-auth stage, read by build-docker. Stages run
	// strictly in order, so no synchronization is needed.
	var credential string

	p := pipeline.New("relax-scorecard")

	p.AddStage(pipeline.Stage{
		Name: "prepare-auth",
		Condition: func() bool {
			return def.ForceCredentialRefresh || def.Trigger.ShouldRefreshCredentials()
		},
		Jobs: []pipeline.Job{{
			Name: "refresh-registry-credential",
			Run: func(ctx context.Context) error {
				c, err := o.RefreshCredentials(ctx, cfg)
				if err != nil {
					return err
				}
				credential = c
				return nil
			},
		}},
	})

	p.AddStage(pipeline.Stage{
		Name: "build-docker",
		Jobs: []pipeline.Job{{
			Name: "build-scorecard-image",
			Run: func(ctx context.Context) error {
				cred := credential
				if cred == "" {
					cred = o.PublishedCredential(cfg)
				}
				_, _, err := o.BuildImage(ctx, cfg, cred)
				return err
			},
		}},
	})

	p.AddStage(o.benchmarkStage(cfg))

	p.AddStage(pipeline.Stage{
		Name:      "collect-results",
		Condition: func() bool { return cfg.Benchmark.Upload },
		Jobs: []pipeline.Job{{
			Name: "upload-run-artifacts",
			Run: func(ctx context.Context) error {
				return o.CollectResults(ctx, cfg)
			},
		}},
	})

	return p.Run(ctx)
}

// RefreshCredentials runs the credential-refresh task: fetch a registry
// token, encode user:token and publish it for the build stage. Callers are
// responsible for the trigger guard.
func (o *Orchestrator) RefreshCredentials(ctx context.Context, cfg *config.Config) (string, error) {
	auth, err := registry.LoadAuthConfig(o.fs, cfg.Registry.AuthFile)
	if err != nil {
		return "", err
	}

	tokenURL := cfg.Registry.TokenURL
	if tokenURL == "" {
		tokenURL = "https://" + cfg.Registry.Host + "/token"
	}

	var publisher registry.Publisher
	if cfg.Registry.VariableURL != "" {
		publisher = registry.NewHTTPPublisher(cfg.Registry.VariableURL, cfg.Registry.VariableToken)
	} else {
		publisher = registry.NewFilePublisher(o.fs, cfg.Registry.VariableFile)
	}

	refresher := registry.NewRefresher(auth, registry.NewTokenClient(tokenURL), publisher)
	return refresher.Refresh(ctx, pipeline.VarRegistryAuth)
}

// PublishedCredential returns the credential published by an earlier refresh,
// or "" when none is available.
func (o *Orchestrator) PublishedCredential(cfg *config.Config) string {
	if cfg.Registry.VariableFile == "" {
		return ""
	}
	vars, err := godotenv.Read(cfg.Registry.VariableFile)
	if err != nil {
		logging.Debug("No published credential at %q: %v", cfg.Registry.VariableFile, err)
		return ""
	}
	return vars[pipeline.VarRegistryAuth]
}

// BuildImage builds and pushes the benchmark image, mints the Run Identifier
// and writes the env artifact consumed by the test stage. The run identifier
// is generated here, exactly once per pipeline run.
func (o *Orchestrator) BuildImage(ctx context.Context, cfg *config.Config, credential string) (runID, imageRef string, err error) {
	builder := imagebuilder.New(imagebuilder.Options{
		Registry:     cfg.Registry.Host,
		Repository:   cfg.Registry.Repository,
		BaseImage:    cfg.Build.BaseImage,
		ContextDir:   cfg.Build.ContextDir,
		Platform:     cfg.Build.Platform,
		CommitSHA:    cfg.Build.CommitSHA,
		DisableCache: cfg.Build.DisableCache,
		Credential:   credential,
	})

	imageRef, err = builder.Build(ctx)
	if err != nil {
		return "", "", err
	}

	runID = imagebuilder.GenerateRunID()
	logging.Info("Generated run identifier %q", runID)

	vars := pipeline.Vars{
		pipeline.VarRunID:    runID,
		pipeline.VarImageRef: imageRef,
	}
	if cfg.Build.CommitSHA != "" {
		vars[pipeline.VarCommitSHA] = cfg.Build.CommitSHA
	}
	if err := pipeline.WriteEnvFile(cfg.Build.EnvFile, vars); err != nil {
		return "", "", err
	}
	logging.Info("Wrote env artifact %s", cfg.Build.EnvFile)
	return runID, imageRef, nil
}

// benchmarkStage builds the test stage: one job per slice, all jobs sharing
// the read-only run identifier and image reference from the env artifact.
func (o *Orchestrator) benchmarkStage(cfg *config.Config) pipeline.Stage {
	jobs := make([]pipeline.Job, 0, len(cfg.Benchmark.Slices))
	for _, slice := range cfg.Benchmark.Slices {
		slice := slice
		jobs = append(jobs, pipeline.Job{
			Name: "scorecard-" + slice.Name,
			Run: func(ctx context.Context) error {
				params, err := o.loadRunParams(cfg)
				if err != nil {
					return err
				}
				runner := benchmark.NewRunner(o.fs, params, benchmark.RunnerOptions{
					Mode:              cfg.Benchmark.Mode,
					Namespace:         cfg.Benchmark.Namespace,
					OutputManifestDir: cfg.Benchmark.OutputManifestDir,
					CredentialsFile:   cfg.Storage.CredentialsFile,
				})
				return runner.RunSlice(ctx, slice)
			},
		})
	}
	return pipeline.Stage{Name: "test", Jobs: jobs}
}

// RunBenchmarks runs only the test stage, against an existing env artifact.
func (o *Orchestrator) RunBenchmarks(ctx context.Context, cfg *config.Config) error {
	p := pipeline.New("relax-scorecard-test")
	p.AddStage(o.benchmarkStage(cfg))
	return p.Run(ctx)
}

// loadRunParams reads the env artifact written by the build stage.
func (o *Orchestrator) loadRunParams(cfg *config.Config) (benchmark.RunParams, error) {
	vars, err := pipeline.ReadEnvFile(cfg.Build.EnvFile)
	if err != nil {
		return benchmark.RunParams{}, err
	}
	runID := vars[pipeline.VarRunID]
	imageRef := vars[pipeline.VarImageRef]
	if runID == "" || imageRef == "" {
		return benchmark.RunParams{}, fmt.Errorf("env artifact %q is missing %s or %s", cfg.Build.EnvFile, pipeline.VarRunID, pipeline.VarImageRef)
	}
	return benchmark.RunParams{
		RunID:      runID,
		ImageRef:   imageRef,
		TestRuns:   cfg.Benchmark.TestRuns,
		WarmupRuns: cfg.Benchmark.WarmupRuns,
		Upload:     cfg.Benchmark.Upload,
	}, nil
}

// CollectResults uploads the local results directory under the run
// identifier prefix.
func (o *Orchestrator) CollectResults(ctx context.Context, cfg *config.Config) error {
	vars, err := pipeline.ReadEnvFile(cfg.Build.EnvFile)
	if err != nil {
		return err
	}
	runID := vars[pipeline.VarRunID]
	if runID == "" {
		return fmt.Errorf("env artifact %q is missing %s", cfg.Build.EnvFile, pipeline.VarRunID)
	}

	uploader, err := results.NewUploader(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	collector := results.NewCollector(uploader, runID)
	_, err = collector.CollectAndUpload(ctx, cfg.Benchmark.ResultsDir)
	return err
}
