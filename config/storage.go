package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Region     string
}

// NewS3Config initializes the S3 client from the shared AWS configuration chain
func (c *Config) NewS3Config(ctx context.Context) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
	)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: c.S3Bucket,
		Region:     c.S3Region,
	}, nil
}

// SetupBucketPolicy applies a bucket policy to allow public read access
func (s *S3Config) SetupBucketPolicy(ctx context.Context) error {
	_, err := s.Client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.BucketName),
		Policy: aws.String(publicReadPolicy(s.BucketName)),
	})
	return err
}

// MinioConfig holds the MinIO client and bucket info
type MinioConfig struct {
	Client    *minio.Client
	Bucket    string
	PublicURL string
}

// NewMinioConfig connects to MinIO and makes sure the bucket exists and is
// publicly readable.
func (c *Config) NewMinioConfig(ctx context.Context) (*MinioConfig, error) {
	client, err := minio.New(c.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.MinioAccessKey, c.MinioSecretKey, ""),
		Secure: c.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, c.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, c.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		if err := client.SetBucketPolicy(ctx, c.MinioBucket, publicReadPolicy(c.MinioBucket)); err != nil {
			return nil, err
		}
	}

	publicURL := c.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if c.MinioUseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + c.MinioEndpoint
	}

	return &MinioConfig{
		Client:    client,
		Bucket:    c.MinioBucket,
		PublicURL: publicURL,
	}, nil
}

func publicReadPolicy(bucket string) string {
	return `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Sid": "PublicReadGetObject",
				"Effect": "Allow",
				"Principal": "*",
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::` + bucket + `/*"
			}
		]
	}`
}
