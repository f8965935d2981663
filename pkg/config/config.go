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

// Package config loads the pipeline configuration. The configuration is read
// once at startup and passed down the orchestration call chain as an
// immutable value; stage logic never consults ambient environment variables
// directly.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Slice selects one benchmark subset: a filter expression over test names
// plus the compute tag the job must be scheduled on.
type Slice struct {
	Name       string `mapstructure:"name"`
	Filter     string `mapstructure:"filter"`
	ComputeTag string `mapstructure:"compute_tag"`
}

// Registry configures the container registry and its token service.
type Registry struct {
	Host       string `mapstructure:"host"`
	Repository string `mapstructure:"repository"`
	AuthFile   string `mapstructure:"auth_file"`
	TokenURL   string `mapstructure:"token_url"`
	// VariableURL is the CI variable-store endpoint the refreshed credential
	// is published to. Empty means publish to VariableFile instead.
	VariableURL string `mapstructure:"variable_url"`
	// VariableToken authorizes writes to VariableURL.
	VariableToken string `mapstructure:"variable_token"`
	VariableFile  string `mapstructure:"variable_file"`
}

// Build configures the benchmark image build.
type Build struct {
	BaseImage    string `mapstructure:"base_image"`
	ContextDir   string `mapstructure:"context_dir"`
	Platform     string `mapstructure:"platform"`
	DisableCache bool   `mapstructure:"disable_cache"`
	CommitSHA    string `mapstructure:"commit_sha"`
	// EnvFile is where the run environment artifact (RUN_ID, IMAGE_REF) is
	// written for the benchmark stage.
	EnvFile string `mapstructure:"env_file"`
}

// Benchmark configures the benchmark runner stage.
type Benchmark struct {
	TestRuns   int    `mapstructure:"test_runs"`
	WarmupRuns int    `mapstructure:"warmup_runs"`
	Upload     bool   `mapstructure:"upload"`
	Mode       string `mapstructure:"mode"` // "kubernetes" or "local"
	Namespace  string `mapstructure:"namespace"`
	// OutputManifestDir, when set, saves generated manifests there instead of
	// applying them.
	OutputManifestDir string  `mapstructure:"output_manifest_dir"`
	ResultsDir        string  `mapstructure:"results_dir"`
	Slices            []Slice `mapstructure:"slices"`
}

// Storage configures the cloud storage target for collected results.
type Storage struct {
	Provider        string `mapstructure:"provider"` // "gcs" or "s3"
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKey       string `mapstructure:"access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Trigger carries the pipeline trigger facts the credential-refresh guard is
// evaluated against.
type Trigger struct {
	Source string `mapstructure:"source"`
	Branch string `mapstructure:"branch"`
}

// Config is the full, immutable pipeline configuration.
type Config struct {
	Registry  Registry  `mapstructure:"registry"`
	Build     Build     `mapstructure:"build"`
	Benchmark Benchmark `mapstructure:"benchmark"`
	Storage   Storage   `mapstructure:"storage"`
	Trigger   Trigger   `mapstructure:"trigger"`
}

// DefaultSlices are the four benchmark subsets run by the pipeline. They
// share one job template and differ only in filter expression.
func DefaultSlices() []Slice {
	return []Slice{
		{Name: "onnx-trt", Filter: "onnx-trt", ComputeTag: "gpu-t4"},
		{Name: "onnx-cuda", Filter: "onnx-cuda", ComputeTag: "gpu-t4"},
		{Name: "relax-trt", Filter: "relax-trt", ComputeTag: "gpu-t4"},
		{Name: "relax-cuda", Filter: "relax-cuda", ComputeTag: "gpu-t4"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("registry.host", "registry.hub.docker.com")
	v.SetDefault("registry.variable_file", "pipeline-vars.env")
	v.SetDefault("build.platform", "linux/amd64")
	v.SetDefault("build.env_file", "run.env")
	v.SetDefault("benchmark.test_runs", 10)
	v.SetDefault("benchmark.warmup_runs", 3)
	v.SetDefault("benchmark.upload", true)
	v.SetDefault("benchmark.mode", "kubernetes")
	v.SetDefault("benchmark.namespace", "default")
	v.SetDefault("benchmark.results_dir", "results")
	v.SetDefault("storage.provider", "gcs")
	v.SetDefault("storage.use_ssl", true)
}

// Load reads the configuration from the given YAML file, overlaying
// SCORECARD_* environment variables (SCORECARD_BUILD_COMMIT_SHA overrides
// build.commit_sha, and so on). path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SCORECARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Benchmark.Slices) == 0 {
		cfg.Benchmark.Slices = DefaultSlices()
	}
	return &cfg, nil
}

// Validate reports the configuration keys a full pipeline run requires.
func (c *Config) Validate() error {
	var missing []string
	if c.Registry.Repository == "" {
		missing = append(missing, "registry.repository")
	}
	if c.Build.BaseImage == "" {
		missing = append(missing, "build.base_image")
	}
	if c.Build.ContextDir == "" {
		missing = append(missing, "build.context_dir")
	}
	if c.Storage.Bucket == "" {
		missing = append(missing, "storage.bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config keys: %s", strings.Join(missing, ", "))
	}

	switch c.Benchmark.Mode {
	case "kubernetes", "local":
	default:
		return fmt.Errorf("benchmark.mode must be \"kubernetes\" or \"local\", got %q", c.Benchmark.Mode)
	}

	switch c.Storage.Provider {
	case "gcs", "s3":
	default:
		return fmt.Errorf("storage.provider must be \"gcs\" or \"s3\", got %q", c.Storage.Provider)
	}

	for i, s := range c.Benchmark.Slices {
		if s.Filter == "" {
			return fmt.Errorf("benchmark.slices[%d] (%s): filter expression must not be empty", i, s.Name)
		}
	}
	return nil
}
