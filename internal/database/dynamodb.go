package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	appconfig "github.com/Stewz00/go-account-service/internal/config"
)

// Swapped in tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newDynamoDBClientFromConfig = func(cfg aws.Config, optFns ...func(*dynamodb.Options)) *dynamodb.Client {
		return dynamodb.NewFromConfig(cfg, optFns...)
	}
)

// DynamoDB owns the SDK client for the accounts table. It is created once at
// startup and handed to the repository; Close marks the end of its lifetime.
type DynamoDB struct {
	Client *dynamodb.Client
	Table  string
}

// NewDynamoDB builds a client for the configured region. Static credentials and
// a base endpoint (e.g. DynamoDB Local) are applied when present.
func NewDynamoDB(ctx context.Context, cfg appconfig.DynamoDB) (*DynamoDB, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config: %w", err)
	}

	client := newDynamoDBClientFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &DynamoDB{Client: client, Table: cfg.Table}, nil
}

// Close releases the client. The SDK client holds no resources that need
// explicit teardown, so this only drops the reference.
func (d *DynamoDB) Close() {
	d.Client = nil
}
