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

package results

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/otiai10/copy"

	"scorecard-toolkit/pkg/logging"
)

// Collector stages a local results directory and uploads its files under the
// run identifier prefix, so results from all slices of one run group
// together.
type Collector struct {
	uploader Uploader
	runID    string
}

// NewCollector creates a Collector for one pipeline run.
func NewCollector(uploader Uploader, runID string) *Collector {
	return &Collector{uploader: uploader, runID: runID}
}

// CollectAndUpload copies resultsDir into a staging directory, then uploads
// every regular file as <runID>/<relative path>. It returns the number of
// uploaded objects. A missing results directory is not an error; benchmark
// jobs that upload everything themselves leave nothing behind.
func (c *Collector) CollectAndUpload(ctx context.Context, resultsDir string) (int, error) {
	if _, err := os.Stat(resultsDir); os.IsNotExist(err) {
		logging.Info("No local results at %q, nothing to collect", resultsDir)
		return 0, nil
	}

	stagingDir, err := os.MkdirTemp("", "scorecard-results-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	// Stage first so uploads see a consistent snapshot even if jobs are
	// still writing.
	if err := copy.Copy(resultsDir, stagingDir); err != nil {
		return 0, fmt.Errorf("failed to stage results from %q: %w", resultsDir, err)
	}

	uploaded := 0
	err = filepath.Walk(stagingDir, func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(stagingDir, p)
		if err != nil {
			return err
		}
		objectName := path.Join(c.runID, filepath.ToSlash(rel))
		logging.Debug("Uploading %s", objectName)
		if err := c.uploader.UploadFile(ctx, objectName, p); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("result upload failed: %w", err)
	}

	logging.Info("Uploaded %d result object(s) under %s/", uploaded, c.runID)
	return uploaded, nil
}
