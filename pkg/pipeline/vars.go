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
	"fmt"

	"github.com/joho/godotenv"
)

// Well-known pipeline variable names.
const (
	VarRunID        = "RUN_ID"
	VarImageRef     = "IMAGE_REF"
	VarCommitSHA    = "COMMIT_SHA"
	VarRegistryAuth = "REGISTRY_AUTH_B64"
)

// Vars is a pipeline variable set: produced by one stage and consumed
// read-only by later stages. Callers hand downstream stages a Merge result
// rather than mutating a shared map.
type Vars map[string]string

// Clone returns an independent copy.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge returns a new set with entries from other overlaid on v. Neither
// input is modified.
func (v Vars) Merge(other Vars) Vars {
	out := v.Clone()
	for k, val := range other {
		out[k] = val
	}
	return out
}

// WriteEnvFile writes the variable set as a key-value environment file, the
// artifact format stages exchange (RUN_ID, IMAGE_REF).
func WriteEnvFile(path string, v Vars) error {
	if err := godotenv.Write(map[string]string(v), path); err != nil {
		return fmt.Errorf("failed to write env artifact %q: %w", path, err)
	}
	return nil
}

// ReadEnvFile reads a key-value environment file produced by an earlier
// stage.
func ReadEnvFile(path string) (Vars, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env artifact %q: %w", path, err)
	}
	return Vars(m), nil
}
