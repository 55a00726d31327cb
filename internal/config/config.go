package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Stewz00/go-account-service/internal/hasher"
)

// Store backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Update policies for password changes on accounts that do not exist.
const (
	// UpdatePolicyUpsert writes the record regardless, creating it if absent.
	UpdatePolicyUpsert = "upsert"
	// UpdatePolicyRequireExisting fails the update when no record exists.
	UpdatePolicyRequireExisting = "require-existing"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StoreBackend      string        `env:"STORE_BACKEND" envDefault:"dynamodb"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
	UpdatePolicy      string        `env:"UPDATE_POLICY" envDefault:"upsert"`
	ConditionalInsert bool          `env:"CONDITIONAL_INSERT" envDefault:"true"`

	DynamoDB DynamoDB
	DbURL    string `env:"DATABASE_URL"`

	PasswordAlgorithm string `env:"PASSWORD_ALGORITHM" envDefault:"bcrypt"`
	BcryptCost        int    `env:"BCRYPT_COST" envDefault:"12"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	DetailedErrors bool   `env:"DETAILED_ERRORS" envDefault:"false"`
}

// DynamoDB holds settings for the DynamoDB backend. Credentials are optional;
// when empty the SDK's default credential chain is used.
type DynamoDB struct {
	Table           string `env:"DYNAMODB_TABLE" envDefault:"Users"`
	Region          string `env:"AWS_REGION" envDefault:"us-east-2"`
	Endpoint        string `env:"DYNAMODB_ENDPOINT"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// Load reads the configuration from a .env file or environment variables and returns a Config struct.
// It returns an error if a value is invalid or a backend-specific setting is missing.
func Load() (*Config, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum values and backend requirements.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" || c.DynamoDB.Region == "" {
			return fmt.Errorf("dynamodb backend requires DYNAMODB_TABLE and AWS_REGION")
		}
		if (c.DynamoDB.AccessKeyID == "") != (c.DynamoDB.SecretAccessKey == "") {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
		}
	case BackendPostgres:
		if c.DbURL == "" {
			return fmt.Errorf("postgres backend requires DATABASE_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.UpdatePolicy {
	case UpdatePolicyUpsert, UpdatePolicyRequireExisting:
	default:
		return fmt.Errorf("unknown UPDATE_POLICY %q", c.UpdatePolicy)
	}

	switch strings.ToLower(c.PasswordAlgorithm) {
	case hasher.AlgorithmBcrypt, hasher.AlgorithmArgon2id:
	default:
		return fmt.Errorf("unknown PASSWORD_ALGORITHM %q", c.PasswordAlgorithm)
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	return nil
}

// RequireExisting reports whether password updates must target an existing account.
func (c *Config) RequireExisting() bool {
	return c.UpdatePolicy == UpdatePolicyRequireExisting
}
