package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"roottrack-api/internal/config"
	"roottrack-api/internal/domain/workflow"
)

var errStorageDisabled = errors.New("root image storage is not configured; set ROOT_IMAGES_S3_* to enable uploads")

var allowedMIMEs = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// S3Storage keeps root photos in S3-compatible storage.
type S3Storage struct {
	bucket   string
	client   *s3.Client
	log      zerolog.Logger
	disabled bool
	now      func() time.Time
}

var _ workflow.ImageStore = (*S3Storage)(nil)

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()
	storage := &S3Storage{
		bucket: strings.TrimSpace(cfg.S3Bucket),
		log:    logger,
		now:    time.Now,
	}

	if !cfg.StorageEnabled() {
		logger.Warn().Msg("ROOT_IMAGES_S3_BUCKET or credentials are not set; root photos will not be stored")
		storage.disabled = true
		return storage, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	storage.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})
	return storage, nil
}

// Inspect sniffs data and accepts JPEG, PNG, WebP and GIF.
func (s *S3Storage) Inspect(data []byte) (workflow.ImageInfo, error) {
	return InspectImage(data)
}

func (s *S3Storage) Enabled() bool {
	return !s.disabled
}

// Put uploads the image under a fresh roots/ key.
func (s *S3Storage) Put(ctx context.Context, info workflow.ImageInfo, data []byte) (string, error) {
	if s.disabled {
		return "", errStorageDisabled
	}
	key := NewImageKey(info.Extension, s.now())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(info.MIME),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("root image stored")
	return key, nil
}

// Health performs a HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	if s.disabled {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// InspectImage detects the MIME type of data and maps it to a file extension.
func InspectImage(data []byte) (workflow.ImageInfo, error) {
	if len(data) == 0 {
		return workflow.ImageInfo{}, errors.New("image is empty")
	}
	mime := mimetype.Detect(data).String()
	ext, ok := allowedMIMEs[mime]
	if !ok {
		return workflow.ImageInfo{}, fmt.Errorf("unsupported mime type %s", mime)
	}
	return workflow.ImageInfo{MIME: mime, Extension: ext, Size: len(data)}, nil
}
