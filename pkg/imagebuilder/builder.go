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

// Package imagebuilder builds and pushes the benchmark container image with
// crane: it appends the build context as a filtered tar layer on top of the
// base image and pushes the result tagged with the commit SHA. It also mints
// the Run Identifier that groups one pipeline run's benchmark results.
package imagebuilder

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/compression"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/sirupsen/logrus"

	"scorecard-toolkit/pkg/registry"
)

// RunIDLength is the fixed length of a Run Identifier.
const RunIDLength = 5

const runIDCharset = "abcdefghijklmnopqrstuvwxyz"

// GenerateRunID mints a Run Identifier: RunIDLength lowercase letters.
// It is generated exactly once per pipeline run, by the image build stage,
// and is immutable afterwards.
func GenerateRunID() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, RunIDLength)
	for i := range b {
		b[i] = runIDCharset[seededRand.Intn(len(runIDCharset))]
	}
	return string(b)
}

// Options configures one image build.
type Options struct {
	Registry   string // registry host, e.g. registry.example.com
	Repository string // e.g. relax/scorecard
	BaseImage  string
	ContextDir string
	Platform   string // "os/arch"
	CommitSHA  string
	// DisableCache stamps the image config with the build time so the pushed
	// config digest is unique even for an unchanged build context.
	DisableCache bool
	// Credential is the base64 user:token published by the credential-refresh
	// stage. Empty means anonymous push (local registries only).
	Credential string
}

// Builder builds and pushes benchmark images.
type Builder struct {
	opts Options
}

// New creates a Builder.
func New(opts Options) *Builder {
	return &Builder{opts: opts}
}

// ImageRef is the full reference the built image is pushed to.
func (b *Builder) ImageRef() string {
	tag := "latest"
	if b.opts.CommitSHA != "" {
		tag = shortSHA(b.opts.CommitSHA)
	}
	return fmt.Sprintf("%s/%s:%s", b.opts.Registry, b.opts.Repository, tag)
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

// Build builds the benchmark image and pushes it to the registry. It returns
// the pushed image reference. Failure is fatal to the pipeline; there are no
// partial-success semantics.
func (b *Builder) Build(ctx context.Context) (string, error) {
	platform, err := parsePlatform(b.opts.Platform)
	if err != nil {
		return "", err
	}

	imageName := b.ImageRef()
	logrus.Infof("Building benchmark image %s", imageName)
	logrus.Infof("Base image: %s", b.opts.BaseImage)
	logrus.Infof("Build context: %s", b.opts.ContextDir)
	logrus.Infof("Target platform: %s/%s", platform.OS, platform.Architecture)

	ignoreMatcher, err := ReadDockerignorePatterns(b.opts.ContextDir, defaultIgnorePatterns())
	if err != nil {
		return "", fmt.Errorf("failed to read .dockerignore patterns: %w", err)
	}

	tarballPath, err := createFilteredTar(b.opts.ContextDir, ignoreMatcher)
	if err != nil {
		return "", fmt.Errorf("failed to create build context tarball: %w", err)
	}
	defer func() {
		os.Remove(tarballPath)
		logrus.Debugf("Cleaned up temporary tarball %s", tarballPath)
	}()

	contextLayer, err := tarball.LayerFromOpener(func() (io.ReadCloser, error) {
		f, openErr := os.Open(tarballPath)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open tarball %q: %w", tarballPath, openErr)
		}
		return f, nil
	}, tarball.WithCompression(compression.GZip))
	if err != nil {
		return "", fmt.Errorf("failed to create layer from tarball: %w", err)
	}

	craneOpts := []crane.Option{crane.WithContext(ctx), crane.WithPlatform(&platform)}
	if b.opts.Credential != "" {
		user, token, err := registry.DecodeBasicAuth(b.opts.Credential)
		if err != nil {
			return "", fmt.Errorf("invalid registry credential: %w", err)
		}
		craneOpts = append(craneOpts, crane.WithAuth(&authn.Basic{Username: user, Password: token}))
	}

	baseRef, err := name.ParseReference(b.opts.BaseImage)
	if err != nil {
		return "", fmt.Errorf("failed to parse base image reference %q: %w", b.opts.BaseImage, err)
	}
	baseImg, err := crane.Pull(baseRef.String(), craneOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to pull base image %q: %w", b.opts.BaseImage, err)
	}

	img, err := mutate.AppendLayers(baseImg, contextLayer)
	if err != nil {
		return "", fmt.Errorf("failed to append build context layer: %w", err)
	}

	img, err = b.stampConfig(img)
	if err != nil {
		return "", err
	}

	imageRef, err := name.ParseReference(imageName)
	if err != nil {
		return "", fmt.Errorf("failed to parse image reference %q: %w", imageName, err)
	}
	logrus.Infof("Pushing image to %s", imageName)
	if err := crane.Push(img, imageRef.String(), craneOpts...); err != nil {
		return "", fmt.Errorf("failed to push image %q: %w", imageName, err)
	}

	logrus.Infof("Image %s built and pushed", imageName)
	return imageName, nil
}

// stampConfig records the commit SHA as an OCI revision label and, when the
// layer cache is disabled, a build timestamp that makes the config digest
// unique per build.
func (b *Builder) stampConfig(img v1.Image) (v1.Image, error) {
	cfg, err := img.ConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to read image config: %w", err)
	}
	cfg = cfg.DeepCopy()
	if cfg.Config.Labels == nil {
		cfg.Config.Labels = map[string]string{}
	}
	if b.opts.CommitSHA != "" {
		cfg.Config.Labels["org.opencontainers.image.revision"] = b.opts.CommitSHA
	}
	if b.opts.DisableCache {
		cfg.Config.Labels["scorecard.build-time"] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	stamped, err := mutate.ConfigFile(img, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to update image config: %w", err)
	}
	return stamped, nil
}

func parsePlatform(platformStr string) (v1.Platform, error) {
	parts := strings.Split(platformStr, "/")
	if len(parts) != 2 {
		return v1.Platform{}, fmt.Errorf("invalid platform format: %q, expected \"os/arch\"", platformStr)
	}
	return v1.Platform{
		OS:           parts[0],
		Architecture: parts[1],
	}, nil
}

func defaultIgnorePatterns() []string {
	return []string{
		".git",
		"results",
		"tmp/",
		"*.log",
		"__pycache__",
		".DS_Store",
	}
}
