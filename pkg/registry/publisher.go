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

package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Publisher stores a refreshed credential for consumption by later stages.
type Publisher interface {
	Publish(ctx context.Context, key, value string) error
}

// HTTPPublisher publishes variables to a CI variable-store API. The endpoint
// receives a PUT of {"key": ..., "value": ...} authorized by a bearer token.
type HTTPPublisher struct {
	client *retryablehttp.Client
	url    string
	token  string
}

// NewHTTPPublisher creates an HTTPPublisher for the given endpoint.
func NewHTTPPublisher(url, token string) *HTTPPublisher {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return &HTTPPublisher{client: client, url: url, token: token}
}

// Publish sends the variable to the store.
func (p *HTTPPublisher) Publish(ctx context.Context, key, value string) error {
	payload := fmt.Sprintf(`{"key":%q,"value":%q}`, key, value)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, p.url, bytes.NewReader([]byte(payload)))
	if err != nil {
		return fmt.Errorf("failed to build variable request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("variable store request to %q failed: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("variable store returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// FilePublisher stores variables in a local env-format file. Used for local
// runs where no variable-store API exists.
type FilePublisher struct {
	fs   afero.Fs
	path string
}

// NewFilePublisher creates a FilePublisher writing to path.
func NewFilePublisher(fs afero.Fs, path string) *FilePublisher {
	return &FilePublisher{fs: fs, path: path}
}

// Publish upserts the variable, preserving other entries in the file.
func (p *FilePublisher) Publish(_ context.Context, key, value string) error {
	vars := map[string]string{}

	data, err := afero.ReadFile(p.fs, p.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read variable file %q: %w", p.path, err)
	}
	if err == nil {
		vars, err = godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to parse variable file %q: %w", p.path, err)
		}
	}

	vars[key] = value
	content, err := godotenv.Marshal(vars)
	if err != nil {
		return fmt.Errorf("failed to marshal variable file: %w", err)
	}
	if err := afero.WriteFile(p.fs, p.path, []byte(content+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write variable file %q: %w", p.path, err)
	}
	return nil
}
