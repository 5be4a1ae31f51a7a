package cache

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// NewAWSConfig loads the default AWS configuration. A non-empty endpoint means a
// local emulator (DynamoDB Local, MinIO) which gets static dummy credentials.
func NewAWSConfig(ctx context.Context, endpoint, region string) (aws.Config, error) {
	if endpoint == "" {
		if region != "" {
			return config.LoadDefaultConfig(ctx, config.WithRegion(region))
		}
		return config.LoadDefaultConfig(ctx)
	}

	log.Debug().Str("endpoint", endpoint).Msg("Using local AWS endpoint")
	if region == "" {
		region = "local"
	}
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithClientLogMode(aws.LogRetries),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
	)
}

// NewDynamoClient creates a DynamoDB client, honoring a local endpoint override
func NewDynamoClient(ctx context.Context, endpoint, region string) (*dynamodb.Client, error) {
	cfg, err := NewAWSConfig(ctx, endpoint, region)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// NewS3Client creates an S3 client; local endpoints use path-style addressing
func NewS3Client(ctx context.Context, endpoint, region string) (*s3.Client, error) {
	cfg, err := NewAWSConfig(ctx, endpoint, region)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
