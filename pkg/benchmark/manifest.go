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
	"bytes"
	"fmt"
	"sort"
	"text/template"
)

// JobTemplate is the Go template for one benchmark Job manifest. Each job is
// an independent unit of work: backoffLimit 0, restartPolicy Never, one GPU.
const JobTemplate = `
apiVersion: batch/v1
kind: Job
metadata:
  name: {{.JobName}}
  namespace: {{.Namespace}}
  labels:
    scorecard.relax.dev/run-id: {{.RunID}}
    scorecard.relax.dev/slice: {{.SliceName}}
spec:
  backoffLimit: 0
  template:
    metadata:
      labels:
        scorecard.relax.dev/run-id: {{.RunID}}
        scorecard.relax.dev/slice: {{.SliceName}}
    spec:
      restartPolicy: Never
      containers:
      - name: scorecard
        image: {{.ImageRef}}
        command: ["/bin/bash", "-c", "{{.Entrypoint}}"]
        env:
{{- range .Env}}
        - name: {{.Name}}
          value: "{{.Value}}"
{{- end}}
        resources:
          limits:
            nvidia.com/gpu: 1
        volumeMounts:
        - name: cloud-credentials
          mountPath: /secrets/cloud
          readOnly: true
      volumes:
      - name: cloud-credentials
        secret:
          secretName: {{.CredentialSecret}}
      nodeSelector:
        cloud.google.com/gke-accelerator: {{.AcceleratorLabel}}
`

// ManifestOptions holds parameters for benchmark Job manifest generation.
type ManifestOptions struct {
	JobName          string
	Namespace        string
	RunID            string
	SliceName        string
	ImageRef         string
	Entrypoint       string
	ComputeTag       string
	CredentialSecret string
	Env              map[string]string
}

type envEntry struct {
	Name  string
	Value string
}

// AcceleratorLabel maps a pipeline compute tag to the scheduler's
// accelerator node label.
func AcceleratorLabel(computeTag string) string {
	switch computeTag {
	case "gpu-t4":
		return "nvidia-tesla-t4"
	case "gpu-a100":
		return "nvidia-tesla-a100"
	default:
		return computeTag
	}
}

// GenerateManifest renders the Job manifest for one benchmark slice.
func GenerateManifest(opts ManifestOptions) (string, error) {
	if opts.JobName == "" {
		return "", fmt.Errorf("manifest requires a job name")
	}
	if opts.Namespace == "" {
		opts.Namespace = "default"
	}

	entries := make([]envEntry, 0, len(opts.Env))
	for k, v := range opts.Env {
		entries = append(entries, envEntry{Name: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	tmpl, err := template.New("benchmarkJob").Parse(JobTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse benchmark job template: %w", err)
	}

	data := struct {
		JobName          string
		Namespace        string
		RunID            string
		SliceName        string
		ImageRef         string
		Entrypoint       string
		AcceleratorLabel string
		CredentialSecret string
		Env              []envEntry
	}{
		JobName:          opts.JobName,
		Namespace:        opts.Namespace,
		RunID:            opts.RunID,
		SliceName:        opts.SliceName,
		ImageRef:         opts.ImageRef,
		Entrypoint:       opts.Entrypoint,
		AcceleratorLabel: AcceleratorLabel(opts.ComputeTag),
		CredentialSecret: opts.CredentialSecret,
		Env:              entries,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute benchmark job template: %w", err)
	}
	return buf.String(), nil
}
