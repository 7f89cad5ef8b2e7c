package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"roombook/config"
	"roombook/infras/otel"
	"roombook/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3 writes objects into the configured bucket. Any S3-compatible store works;
// path-style addressing is always on.
type S3 interface {
	// PutObject stores body under key and returns its s3:// location.
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type bucket struct {
	client *s3.Client
	name   string
	otel   otel.Otel
}

func (b *bucket) PutObject(ctx context.Context, key, contentType string, body []byte) (string, error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".PutObject")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"bucket": b.name,
		"key":    key,
		"size":   len(body),
	})

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		scope.TraceError(err)

		return constant.Empty, fmt.Errorf("failed to put s3://%s/%s: %w", b.name, key, err)
	}

	return fmt.Sprintf("s3://%s/%s", b.name, key), nil
}

// New builds the archive bucket client. It returns nil when archiving is
// disabled or the AWS configuration cannot be loaded.
func New(cfg *config.Config, otel otel.Otel) S3 {
	if !cfg.Archive.Enable {
		log.Info().Msg("Archive disabled, S3 client not created")

		return nil
	}

	s3Cfg := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s3Cfg.AccessKeyID, s3Cfg.SecretAccessKey, "")),
		awsConfig.WithRegion(s3Cfg.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load AWS configuration, archive disabled")

		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Cfg.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(s3Cfg.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	log.Info().Str("bucket", s3Cfg.BucketName).Msg("S3 archive client initialized")

	return &bucket{
		client: client,
		name:   s3Cfg.BucketName,
		otel:   otel,
	}
}
