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
	"testing"

	"scorecard-toolkit/pkg/config"
)

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"simple name", "onnx-trt", false},
		{"and expression", "onnx-trt and not large", false},
		{"parenthesized", "(onnx-trt or onnx-cuda) and not flaky", false},
		{"bracketed param", "test_bench[resnet50-fp16]", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"only operators", "and not", true},
		{"trailing operator", "onnx-trt and", true},
		{"unbalanced open", "(onnx-trt", true},
		{"unbalanced close", "onnx-trt)", true},
		{"invalid token", "onnx-trt; rm -rf /", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilter(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilter(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultSlicesAreValid(t *testing.T) {
	// All four shipped filter expressions must pass validation.
	slices := config.DefaultSlices()
	if len(slices) != 4 {
		t.Fatalf("len(DefaultSlices()) = %d, want 4", len(slices))
	}
	for _, s := range slices {
		if err := ValidateFilter(s.Filter); err != nil {
			t.Errorf("default slice %q has invalid filter: %v", s.Name, err)
		}
	}
}
