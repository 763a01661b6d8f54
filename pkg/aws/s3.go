package aws

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 API the object store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStore archives run artifacts (such as the monthly cost
// summary) to S3.
type ObjectStore struct {
	api S3API
}

// NewObjectStore creates an ObjectStore using the default credential chain.
func NewObjectStore(ctx context.Context) (*ObjectStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for S3: %w", err)
	}

	return &ObjectStore{api: s3.NewFromConfig(cfg)}, nil
}

// NewObjectStoreWithAPI wires the store to an existing API, used by tests.
func NewObjectStoreWithAPI(api S3API) *ObjectStore {
	return &ObjectStore{api: api}
}

// Put writes body to s3://bucket/key.
func (s *ObjectStore) Put(ctx context.Context, bucket, key string, body []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", bucket, key, err)
	}

	return nil
}
