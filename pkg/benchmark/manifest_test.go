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
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func testManifestOptions() ManifestOptions {
	params := RunParams{
		RunID:      "abcde",
		ImageRef:   "registry.example.com/relax/scorecard:abc1234",
		TestRuns:   10,
		WarmupRuns: 3,
		Upload:     true,
	}
	return ManifestOptions{
		JobName:          "scorecard-abcde-onnx-trt",
		Namespace:        "benchmarks",
		RunID:            "abcde",
		SliceName:        "onnx-trt",
		ImageRef:         params.ImageRef,
		Entrypoint:       DefaultEntrypoint,
		ComputeTag:       "gpu-t4",
		CredentialSecret: "scorecard-abcde-onnx-trt-creds",
		Env:              params.Env("onnx-trt"),
	}
}

func TestGenerateManifestIsValidYAML(t *testing.T) {
	manifest, err := GenerateManifest(testManifestOptions())
	if err != nil {
		t.Fatalf("GenerateManifest() error: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(manifest), &doc); err != nil {
		t.Fatalf("generated manifest is not valid YAML: %v\n%s", err, manifest)
	}
	if doc["kind"] != "Job" {
		t.Errorf("kind = %v, want Job", doc["kind"])
	}
	if doc["apiVersion"] != "batch/v1" {
		t.Errorf("apiVersion = %v, want batch/v1", doc["apiVersion"])
	}
}

func TestGenerateManifestContents(t *testing.T) {
	manifest, err := GenerateManifest(testManifestOptions())
	if err != nil {
		t.Fatalf("GenerateManifest() error: %v", err)
	}

	for _, want := range []string{
		"name: scorecard-abcde-onnx-trt",
		"namespace: benchmarks",
		"image: registry.example.com/relax/scorecard:abc1234",
		"nvidia.com/gpu: 1",
		"cloud.google.com/gke-accelerator: nvidia-tesla-t4",
		"scorecard.relax.dev/run-id: abcde",
		"secretName: scorecard-abcde-onnx-trt-creds",
		"- name: PYTEST_FILTER",
		`value: "onnx-trt"`,
		"- name: TEST_RUNS",
		`value: "10"`,
		"- name: WARMUP_RUNS",
		`value: "3"`,
		"- name: UPLOAD_GCP",
		`value: "1"`,
		"backoffLimit: 0",
		"restartPolicy: Never",
	} {
		if !strings.Contains(manifest, want) {
			t.Errorf("manifest missing %q:\n%s", want, manifest)
		}
	}
}

func TestGenerateManifestRequiresJobName(t *testing.T) {
	opts := testManifestOptions()
	opts.JobName = ""
	if _, err := GenerateManifest(opts); err == nil {
		t.Error("GenerateManifest() with empty job name = nil error, want error")
	}
}

func TestAcceleratorLabel(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"gpu-t4", "nvidia-tesla-t4"},
		{"gpu-a100", "nvidia-tesla-a100"},
		{"custom-pool", "custom-pool"},
	}
	for _, tt := range tests {
		if got := AcceleratorLabel(tt.tag); got != tt.want {
			t.Errorf("AcceleratorLabel(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}
