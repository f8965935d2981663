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

// Package registry refreshes the container-registry credential used by the
// image build stage: it fetches an access token from the registry token
// service, encodes user:token as base64 and publishes the result to a
// variable store consumed downstream.
package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/afero"

	"scorecard-toolkit/pkg/logging"
)

// AuthConfig is the registry auth JSON handed to the pipeline.
type AuthConfig struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// LoadAuthConfig reads and validates the registry auth JSON file.
func LoadAuthConfig(fs afero.Fs, path string) (AuthConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return AuthConfig{}, fmt.Errorf("failed to read registry auth file %q: %w", path, err)
	}
	var auth AuthConfig
	if err := json.Unmarshal(data, &auth); err != nil {
		return AuthConfig{}, fmt.Errorf("failed to parse registry auth file %q: %w", path, err)
	}
	if auth.User == "" || auth.Password == "" {
		return AuthConfig{}, fmt.Errorf("registry auth file %q is missing user or password", path)
	}
	return auth, nil
}

// EncodeBasicAuth returns the base64 encoding of user:token, the form the
// build stage passes to the registry.
func EncodeBasicAuth(user, token string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + token))
}

// DecodeBasicAuth splits a value produced by EncodeBasicAuth back into user
// and token.
func DecodeBasicAuth(encoded string) (user, token string, err error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", fmt.Errorf("credential is not valid base64: %w", err)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == ':' {
			return string(raw[:i]), string(raw[i+1:]), nil
		}
	}
	return "", "", fmt.Errorf("credential is not in user:token form")
}

// TokenClient fetches access tokens from a registry token service.
type TokenClient struct {
	client   *retryablehttp.Client
	tokenURL string
}

// NewTokenClient creates a TokenClient for the given token endpoint.
func NewTokenClient(tokenURL string) *TokenClient {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil
	return &TokenClient{client: client, tokenURL: tokenURL}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// FetchToken requests a fresh access token using the given credentials.
func (c *TokenClient) FetchToken(ctx context.Context, auth AuthConfig) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(auth.User, auth.Password)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request to %q failed: %w", c.tokenURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("token service returned status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("token service returned an empty token")
	}
	return tr.Token, nil
}

// Refresher runs the credential-refresh stage.
type Refresher struct {
	auth      AuthConfig
	tokens    *TokenClient
	publisher Publisher
}

// NewRefresher assembles a Refresher from its parts.
func NewRefresher(auth AuthConfig, tokens *TokenClient, publisher Publisher) *Refresher {
	return &Refresher{auth: auth, tokens: tokens, publisher: publisher}
}

// Refresh fetches a token, encodes user:token and publishes it under the
// given variable name. Any failure is fatal to the pipeline; there is no
// retry beyond the HTTP client's own.
func (r *Refresher) Refresh(ctx context.Context, variableName string) (string, error) {
	logging.Info("Refreshing registry credential for user %q", r.auth.User)
	token, err := r.tokens.FetchToken(ctx, r.auth)
	if err != nil {
		return "", err
	}

	encoded := EncodeBasicAuth(r.auth.User, token)
	if err := r.publisher.Publish(ctx, variableName, encoded); err != nil {
		return "", fmt.Errorf("failed to publish refreshed credential: %w", err)
	}
	logging.Info("Published refreshed credential as %s", variableName)
	return encoded, nil
}
