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

package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := Vars{VarCommitSHA: "abc1234"}
	overlay := Vars{VarRunID: "qwert"}

	merged := base.Merge(overlay)

	if diff := cmp.Diff(Vars{VarCommitSHA: "abc1234"}, base); diff != "" {
		t.Errorf("base mutated by Merge (-want +got):\n%s", diff)
	}
	want := Vars{VarCommitSHA: "abc1234", VarRunID: "qwert"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("Merge result mismatch (-want +got):\n%s", diff)
	}

	merged[VarImageRef] = "example.com/img:tag"
	if _, ok := base[VarImageRef]; ok {
		t.Error("writing to the merged set leaked into the base set")
	}
}

func TestEnvFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.env")
	vars := Vars{
		VarRunID:    "abcde",
		VarImageRef: "registry.example.com/relax/scorecard:abc1234",
	}

	if err := WriteEnvFile(path, vars); err != nil {
		t.Fatalf("WriteEnvFile() error: %v", err)
	}
	got, err := ReadEnvFile(path)
	if err != nil {
		t.Fatalf("ReadEnvFile() error: %v", err)
	}
	if diff := cmp.Diff(vars, got); diff != "" {
		t.Errorf("env artifact round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEnvFileMissing(t *testing.T) {
	if _, err := ReadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("ReadEnvFile() on a missing artifact = nil, want error")
	}
}
