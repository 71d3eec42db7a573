package filestore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client used for backups.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config describes an S3-compatible backup destination.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Backup uploads each copy to <prefix>/<name>/<timestamp>.yaml.
type S3Backup struct {
	client PutObjectAPI
	bucket string
	prefix string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Backup builds an S3 client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewS3Backup(ctx context.Context, cfg S3Config) (*S3Backup, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3BackupWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewS3BackupWithClient(client PutObjectAPI, bucket, prefix string) *S3Backup {
	return &S3Backup{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a backup of name taken at at.
func (b *S3Backup) Key(name string, at time.Time) string {
	return path.Join(b.prefix, name, at.UTC().Format(TimestampLayout)+".yaml")
}

func (b *S3Backup) Backup(ctx context.Context, name string, data []byte, at time.Time) error {
	key := b.Key(name, at)
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/yaml"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", b.bucket, key, err)
	}
	return nil
}
