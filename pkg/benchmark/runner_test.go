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
	"strings"
	"testing"

	"github.com/spf13/afero"

	"scorecard-toolkit/pkg/config"
)

func testRunner(fs afero.Fs, opts RunnerOptions) *Runner {
	params := RunParams{
		RunID:      "abcde",
		ImageRef:   "registry.example.com/relax/scorecard:abc1234",
		TestRuns:   10,
		WarmupRuns: 3,
		Upload:     true,
	}
	return NewRunner(fs, params, opts)
}

func TestJobName(t *testing.T) {
	r := testRunner(afero.NewMemMapFs(), RunnerOptions{Mode: "kubernetes"})
	got := r.JobName(config.Slice{Name: "onnx-trt"})
	if got != "scorecard-abcde-onnx-trt" {
		t.Errorf("JobName() = %q, want scorecard-abcde-onnx-trt", got)
	}
}

func TestRunSliceRejectsInvalidFilter(t *testing.T) {
	r := testRunner(afero.NewMemMapFs(), RunnerOptions{Mode: "kubernetes"})
	err := r.RunSlice(context.Background(), config.Slice{Name: "bad", Filter: ""})
	if err == nil {
		t.Error("RunSlice() with empty filter = nil error, want error")
	}
}

func TestRunSliceRejectsUnknownMode(t *testing.T) {
	r := testRunner(afero.NewMemMapFs(), RunnerOptions{Mode: "swarm"})
	err := r.RunSlice(context.Background(), config.Slice{Name: "onnx-trt", Filter: "onnx-trt"})
	if err == nil || !strings.Contains(err.Error(), "unknown benchmark mode") {
		t.Errorf("RunSlice() error = %v, want unknown benchmark mode", err)
	}
}

func TestRunSliceOutputManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := testRunner(fs, RunnerOptions{
		Mode:              "kubernetes",
		Namespace:         "benchmarks",
		OutputManifestDir: "/manifests",
	})

	slice := config.Slice{Name: "onnx-trt", Filter: "onnx-trt", ComputeTag: "gpu-t4"}
	if err := r.RunSlice(context.Background(), slice); err != nil {
		t.Fatalf("RunSlice() error: %v", err)
	}

	data, err := afero.ReadFile(fs, "/manifests/scorecard-abcde-onnx-trt.yaml")
	if err != nil {
		t.Fatalf("expected saved manifest: %v", err)
	}
	manifest := string(data)
	for _, want := range []string{"PYTEST_FILTER", "onnx-trt", "nvidia-tesla-t4"} {
		if !strings.Contains(manifest, want) {
			t.Errorf("saved manifest missing %q", want)
		}
	}
}

func TestMaterializeCredentials(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/creds/gcp.json", []byte(`{"type":"service_account"}`), 0644); err != nil {
		t.Fatal(err)
	}
	r := testRunner(fs, RunnerOptions{Mode: "local", CredentialsFile: "/creds/gcp.json"})

	path, cleanup, err := r.materializeCredentials()
	if err != nil {
		t.Fatalf("materializeCredentials() error: %v", err)
	}
	defer cleanup()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("failed to read materialized file: %v", err)
	}
	if string(data) != `{"type":"service_account"}` {
		t.Errorf("materialized content = %q", string(data))
	}

	info, err := fs.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credential file mode = %v, want 0600", info.Mode().Perm())
	}

	cleanup()
	if _, err := fs.Stat(path); err == nil {
		t.Error("credential file still present after cleanup")
	}
}

func TestMaterializeCredentialsMissingConfig(t *testing.T) {
	r := testRunner(afero.NewMemMapFs(), RunnerOptions{Mode: "local"})
	if _, _, err := r.materializeCredentials(); err == nil {
		t.Error("materializeCredentials() without a source = nil error, want error")
	}
}
