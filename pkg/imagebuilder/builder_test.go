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

package imagebuilder

import (
	"testing"
)

func TestGenerateRunID(t *testing.T) {
	// Length and character-set invariants must hold across repeated runs;
	// downstream result grouping depends on them.
	for i := 0; i < 200; i++ {
		id := GenerateRunID()
		if len(id) != RunIDLength {
			t.Fatalf("len(GenerateRunID()) = %d, want %d", len(id), RunIDLength)
		}
		for _, r := range id {
			if r < 'a' || r > 'z' {
				t.Fatalf("GenerateRunID() = %q, want lowercase letters only", id)
			}
		}
	}
}

func TestImageRef(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "commit sha tag",
			opts: Options{Registry: "registry.example.com", Repository: "relax/scorecard", CommitSHA: "abc1234"},
			want: "registry.example.com/relax/scorecard:abc1234",
		},
		{
			name: "long sha truncated",
			opts: Options{Registry: "registry.example.com", Repository: "relax/scorecard", CommitSHA: "0123456789abcdef0123"},
			want: "registry.example.com/relax/scorecard:0123456789ab",
		},
		{
			name: "no sha falls back to latest",
			opts: Options{Registry: "registry.example.com", Repository: "relax/scorecard"},
			want: "registry.example.com/relax/scorecard:latest",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.opts).ImageRef(); got != tt.want {
				t.Errorf("ImageRef() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePlatform(t *testing.T) {
	platform, err := parsePlatform("linux/amd64")
	if err != nil {
		t.Fatalf("parsePlatform() error: %v", err)
	}
	if platform.OS != "linux" || platform.Architecture != "amd64" {
		t.Errorf("parsePlatform() = %s/%s, want linux/amd64", platform.OS, platform.Architecture)
	}

	for _, bad := range []string{"", "linux", "linux/amd64/v2"} {
		if _, err := parsePlatform(bad); err == nil {
			t.Errorf("parsePlatform(%q) = nil error, want error", bad)
		}
	}
}
