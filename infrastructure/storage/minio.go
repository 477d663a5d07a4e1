package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/infrastructure/logger"
)

// MinIOStore is a BlobStore backed by a MinIO (or S3-compatible) bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// MinIOConfig carries the connection parameters for a MinIO store.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinIOStore connects to MinIO and ensures the bucket exists
func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	logger.Debug("MinIO blob store ready", logger.LoggerInfo{
		ContextFunction: constant.CtxStorage,
		Data: map[string]interface{}{
			constant.DataBucket: cfg.Bucket,
		},
	})

	return &MinIOStore{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads an object
func (s *MinIOStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.CtxError(ctx, "Failed to upload object", logger.LoggerInfo{
			ContextFunction: constant.CtxStorage,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStoragePut,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataPath:   path,
				constant.DataBucket: s.bucket,
			},
		})
	}
	return err
}

// Get downloads an object, mapping missing keys to ErrNotFound
func (s *MinIOStore) Get(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete removes an object; missing keys are not an error
func (s *MinIOStore) Delete(ctx context.Context, path string) error {
	return s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
}
