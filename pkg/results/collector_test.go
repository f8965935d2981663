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
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorecard-toolkit/pkg/config"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects []string
	failOn  string
}

func (f *fakeUploader) UploadFile(_ context.Context, objectName, filePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && filepath.Base(objectName) == f.failOn {
		return errors.New("upload rejected")
	}
	if _, err := os.Stat(filePath); err != nil {
		return err
	}
	f.objects = append(f.objects, objectName)
	return nil
}

func writeResults(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestCollectAndUpload(t *testing.T) {
	dir := writeResults(t, map[string]string{
		"onnx-trt/report.json":  `{"score": 1}`,
		"onnx-cuda/report.json": `{"score": 2}`,
		"run.log":               "done",
	})

	uploader := &fakeUploader{}
	collector := NewCollector(uploader, "abcde")

	n, err := collector.CollectAndUpload(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	sort.Strings(uploader.objects)
	assert.Equal(t, []string{
		"abcde/onnx-cuda/report.json",
		"abcde/onnx-trt/report.json",
		"abcde/run.log",
	}, uploader.objects)
}

func TestCollectAndUploadMissingDir(t *testing.T) {
	collector := NewCollector(&fakeUploader{}, "abcde")
	n, err := collector.CollectAndUpload(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollectAndUploadPropagatesFailure(t *testing.T) {
	dir := writeResults(t, map[string]string{"report.json": "{}"})
	collector := NewCollector(&fakeUploader{failOn: "report.json"}, "abcde")

	_, err := collector.CollectAndUpload(context.Background(), dir)
	assert.Error(t, err)
}

func TestNewUploaderUnknownProvider(t *testing.T) {
	_, err := NewUploader(context.Background(), config.Storage{Provider: "ftp"})
	assert.Error(t, err)
}

func TestNewS3UploaderRequiresEndpoint(t *testing.T) {
	_, err := NewS3Uploader(config.Storage{Provider: "s3", Bucket: "b"})
	assert.Error(t, err)
}
