package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the part of *s3.Client the store needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3 compatible bucket (AWS, MinIO, R2).
type S3Config struct {
	Bucket        string
	Region        string
	BaseEndpoint  string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Store uploads media to a bucket and returns URLs under PublicBaseURL.
type S3Store struct {
	client        putObjectAPI
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

var _ portssvc.MediaStore = (*S3Store)(nil)

// NewS3Store builds an S3 client from static credentials. A non-empty
// BaseEndpoint switches to path-style addressing for self-hosted stores.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newS3Store(client putObjectAPI, bucket, publicBaseURL string) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
		now:           time.Now,
	}
}

// Upload stores the file body under a fresh key.
func (s *S3Store) Upload(ctx context.Context, file domain.MediaFile) (*domain.UploadResult, error) {
	if file.Body == nil {
		return nil, errors.New("media file has no body")
	}
	key := storageKey(s.now(), file.Filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file.Body,
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return &domain.UploadResult{URL: publicURL(s.publicBaseURL, key), Key: key}, nil
}
