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

// Package results uploads collected benchmark logs and reports to cloud
// storage, grouped under the run identifier. The suite uploads its own
// scores from inside the job; this package covers the orchestrator-side
// artifacts.
package results

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/api/option"

	"scorecard-toolkit/pkg/config"
)

// Uploader stores one local file under an object name in a bucket.
type Uploader interface {
	UploadFile(ctx context.Context, objectName, filePath string) error
}

// NewUploader builds the Uploader named by the storage configuration.
func NewUploader(ctx context.Context, cfg config.Storage) (Uploader, error) {
	switch cfg.Provider {
	case "gcs":
		return NewGCSUploader(ctx, cfg.Bucket, cfg.CredentialsFile)
	case "s3":
		return NewS3Uploader(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// GCSUploader uploads to a Google Cloud Storage bucket.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

// NewGCSUploader creates a GCS uploader. credentialsFile may be empty, in
// which case application default credentials apply.
func NewGCSUploader(ctx context.Context, bucket, credentialsFile string) (*GCSUploader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket}, nil
}

// UploadFile writes the file to gs://<bucket>/<objectName>.
func (u *GCSUploader) UploadFile(ctx context.Context, objectName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", filePath, err)
	}
	defer f.Close()

	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("failed to upload %q to gs://%s/%s: %w", filePath, u.bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize gs://%s/%s: %w", u.bucket, objectName, err)
	}
	return nil
}

// S3Uploader uploads to an S3-compatible bucket.
type S3Uploader struct {
	client *minio.Client
	bucket string
}

// NewS3Uploader creates an uploader for the configured S3-compatible
// endpoint.
func NewS3Uploader(cfg config.Storage) (*S3Uploader, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 storage requires an endpoint")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &S3Uploader{client: client, bucket: cfg.Bucket}, nil
}

// UploadFile writes the file to s3://<bucket>/<objectName>.
func (u *S3Uploader) UploadFile(ctx context.Context, objectName, filePath string) error {
	_, err := u.client.FPutObject(ctx, u.bucket, objectName, filePath, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to upload %q to s3://%s/%s: %w", filePath, u.bucket, objectName, err)
	}
	return nil
}
