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

// Trigger sources.
const (
	SourceWeb  = "web"
	MainBranch = "main"
)

// Trigger describes how the pipeline run was started.
type Trigger struct {
	Source string
	Branch string
}

// ShouldRefreshCredentials reports whether the credential-refresh stage may
// run: only on a manual web trigger of the main branch, never on arbitrary
// commits.
func (t Trigger) ShouldRefreshCredentials() bool {
	return t.Source == SourceWeb && t.Branch == MainBranch
}
