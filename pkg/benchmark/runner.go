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

package benchmark

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"scorecard-toolkit/pkg/config"
	"scorecard-toolkit/pkg/logging"
	"scorecard-toolkit/pkg/shell"
)

// DefaultEntrypoint is the suite entrypoint inside the benchmark image. It
// reads PYTEST_FILTER, TEST_RUNS, WARMUP_RUNS and UPLOAD_GCP from its
// environment; the suite's internals are external to this tool.
const DefaultEntrypoint = "./run_scorecard.sh"

// jobWaitTimeout bounds how long a Kubernetes benchmark job is waited on.
const jobWaitTimeout = "4h"

// RunnerOptions configures job execution.
type RunnerOptions struct {
	Mode      string // "kubernetes" or "local"
	Namespace string
	// OutputManifestDir, when set, saves generated manifests instead of
	// applying them.
	OutputManifestDir string
	// CredentialsFile is the host-side cloud-auth JSON materialized into each
	// job.
	CredentialsFile string
	Entrypoint      string
}

// Runner executes benchmark jobs for one pipeline run.
type Runner struct {
	fs     afero.Fs
	params RunParams
	opts   RunnerOptions
}

// NewRunner creates a Runner. fs abstracts credential and manifest file IO.
func NewRunner(fs afero.Fs, params RunParams, opts RunnerOptions) *Runner {
	if opts.Entrypoint == "" {
		opts.Entrypoint = DefaultEntrypoint
	}
	if opts.Namespace == "" {
		opts.Namespace = "default"
	}
	return &Runner{fs: fs, params: params, opts: opts}
}

// JobName is the benchmark job name for a slice, unique per run.
func (r *Runner) JobName(slice config.Slice) string {
	return fmt.Sprintf("scorecard-%s-%s", r.params.RunID, slice.Name)
}

// RunSlice executes one benchmark slice and blocks until it completes. The
// four slices of a run are independent; callers run them concurrently.
func (r *Runner) RunSlice(ctx context.Context, slice config.Slice) error {
	if err := ValidateFilter(slice.Filter); err != nil {
		return err
	}

	env := r.params.Env(slice.Filter)
	logging.Info("Benchmark slice %q: filter=%q computeTag=%q", slice.Name, slice.Filter, slice.ComputeTag)

	switch r.opts.Mode {
	case "local":
		return r.runLocal(ctx, slice, env)
	case "kubernetes":
		return r.runKubernetes(ctx, slice, env)
	default:
		return fmt.Errorf("unknown benchmark mode %q", r.opts.Mode)
	}
}

// materializeCredentials writes the cloud-auth file to a private temporary
// location and returns its path with a cleanup func.
func (r *Runner) materializeCredentials() (string, func(), error) {
	if r.opts.CredentialsFile == "" {
		return "", nil, fmt.Errorf("cloud credentials file is not configured")
	}
	data, err := afero.ReadFile(r.fs, r.opts.CredentialsFile)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read cloud credentials %q: %w", r.opts.CredentialsFile, err)
	}

	tmp, err := afero.TempFile(r.fs, "", "scorecard-cloud-creds-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create credential file: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.fs.Remove(path)
		return "", nil, fmt.Errorf("failed to write credential file: %w", err)
	}
	tmp.Close()

	if err := r.fs.Chmod(path, 0600); err != nil {
		r.fs.Remove(path)
		return "", nil, fmt.Errorf("failed to restrict credential file mode: %w", err)
	}
	return path, func() { r.fs.Remove(path) }, nil
}

func (r *Runner) runLocal(ctx context.Context, slice config.Slice, env map[string]string) error {
	credPath, cleanup, err := r.materializeCredentials()
	if err != nil {
		return err
	}
	defer cleanup()

	args := []string{
		"run", "--rm",
		"--gpus", "all",
		"-v", credPath + ":" + credMountPath + ":ro",
	}
	for _, kv := range sortedEnv(env) {
		args = append(args, "-e", kv)
	}
	args = append(args, r.params.ImageRef, "/bin/bash", "-c", r.opts.Entrypoint)

	res := shell.NewCommand("docker", args...).ExecuteContext(ctx)
	if res.ExitCode != 0 {
		return fmt.Errorf("benchmark slice %q exited with code %d: %s", slice.Name, res.ExitCode, res.Stderr)
	}
	logging.Info("Benchmark slice %q completed", slice.Name)
	return nil
}

func (r *Runner) runKubernetes(ctx context.Context, slice config.Slice, env map[string]string) error {
	jobName := r.JobName(slice)
	secretName := jobName + "-creds"

	manifest, err := GenerateManifest(ManifestOptions{
		JobName:          jobName,
		Namespace:        r.opts.Namespace,
		RunID:            r.params.RunID,
		SliceName:        slice.Name,
		ImageRef:         r.params.ImageRef,
		Entrypoint:       r.opts.Entrypoint,
		ComputeTag:       slice.ComputeTag,
		CredentialSecret: secretName,
		Env:              env,
	})
	if err != nil {
		return err
	}

	if r.opts.OutputManifestDir != "" {
		path := filepath.Join(r.opts.OutputManifestDir, jobName+".yaml")
		logging.Info("Saving benchmark job manifest to %s", path)
		if err := afero.WriteFile(r.fs, path, []byte(manifest), 0644); err != nil {
			return fmt.Errorf("failed to write manifest %q: %w", path, err)
		}
		return nil
	}

	credPath, cleanup, err := r.materializeCredentials()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := r.applyCredentialSecret(ctx, secretName, credPath); err != nil {
		return err
	}

	logging.Info("Applying benchmark job %q", jobName)
	res := shell.NewCommand("kubectl", "apply", "-f", "-").
		SetInput(manifest).
		ExecuteContext(ctx)
	if res.ExitCode != 0 {
		return fmt.Errorf("kubectl apply failed with exit code %d: %s\n%s", res.ExitCode, res.Stderr, res.Stdout)
	}

	logging.Info("Waiting for benchmark job %q to complete", jobName)
	res = shell.NewCommand("kubectl",
		"-n", r.opts.Namespace,
		"wait", "--for=condition=complete",
		"--timeout="+jobWaitTimeout,
		"job/"+jobName,
	).ExecuteContext(ctx)
	if res.ExitCode != 0 {
		return fmt.Errorf("benchmark job %q did not complete: %s\n%s", jobName, res.Stderr, res.Stdout)
	}
	logging.Info("Benchmark job %q completed", jobName)
	return nil
}

// applyCredentialSecret creates or updates the per-job secret holding the
// cloud-auth file.
func (r *Runner) applyCredentialSecret(ctx context.Context, secretName, credPath string) error {
	res := shell.NewCommand("kubectl",
		"-n", r.opts.Namespace,
		"create", "secret", "generic", secretName,
		"--from-file=credentials.json="+credPath,
		"--dry-run=client", "-o", "yaml",
	).ExecuteContext(ctx)
	if res.ExitCode != 0 {
		return fmt.Errorf("failed to render credential secret: %s", res.Stderr)
	}

	apply := shell.NewCommand("kubectl", "apply", "-f", "-").
		SetInput(res.Stdout).
		ExecuteContext(ctx)
	if apply.ExitCode != 0 {
		return fmt.Errorf("failed to apply credential secret: %s\n%s", apply.Stderr, apply.Stdout)
	}
	return nil
}
