package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"stayfinder/config"
	"stayfinder/infras/otel"
	"stayfinder/shared/constant"
)

const (
	otelAttrKey    = "s3.key"
	otelAttrBucket = "s3.bucket"

	// R2 and MinIO ignore the region but the SDK requires one.
	region = "auto"
)

// S3 stores listing photos under object keys in a single bucket and serves them from a public domain.
type S3 interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Remove(ctx context.Context, key string) error
	KeyFromURL(url string) (key string, ok bool)
}

type s3Impl struct {
	client       *s3.Client
	bucket       string
	publicDomain string
	apiEndpoint  string
	otel         otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	conf := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, "")),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(conf.APIEndpoint)
		o.UsePathStyle = true
	})

	return &s3Impl{
		client:       client,
		bucket:       conf.BucketName,
		publicDomain: strings.TrimSuffix(conf.PublicDomain, "/"),
		apiEndpoint:  strings.TrimSuffix(conf.APIEndpoint, "/"),
		otel:         otel,
	}
}

func (svc *s3Impl) span(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+"."+op)
	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: svc.bucket,
	})

	return ctx, scope
}

func (svc *s3Impl) Put(ctx context.Context, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.span(ctx, "Put", key)
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return svc.publicDomain + "/" + key, nil
}

func (svc *s3Impl) Remove(ctx context.Context, key string) (err error) {
	ctx, scope := svc.span(ctx, "Remove", key)
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}

	return nil
}

// KeyFromURL reverses Put. URLs served from anywhere but this bucket report ok=false,
// so externally hosted listing photos are never touched.
func (svc *s3Impl) KeyFromURL(url string) (string, bool) {
	prefixes := []string{svc.publicDomain, svc.apiEndpoint + "/" + svc.bucket}

	for _, prefix := range prefixes {
		if prefix == "" || prefix == "/"+svc.bucket {
			continue
		}

		if key, found := strings.CutPrefix(url, prefix+"/"); found && key != "" {
			return key, true
		}
	}

	return constant.Empty, false
}
