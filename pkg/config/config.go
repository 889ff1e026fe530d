package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	pkgtls "github.com/mtljason322/freshcart/pkg/tls"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LocalMode       bool          `envconfig:"LOCAL_MODE" default:"true"` // 외부 싱크(Kafka, DynamoDB) 없이 실행
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	AWSRegion          string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	AuditTableName     string `envconfig:"AUDIT_TABLE_NAME" default:"inventory-audit"`
	DynamoDBEndpoint   string `envconfig:"DYNAMODB_ENDPOINT"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"inventory-events"`

	pkgtls.TLSConfig
}

// Load reads env files and then the process environment. Without
// arguments an optional .env in the working directory is used.
// Variables already set win over file values.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// KafkaEnabled reports whether inventory events go to Kafka.
func (c *Config) KafkaEnabled() bool {
	return !c.LocalMode && c.KafkaBrokers != ""
}

// AuditEnabled reports whether inventory events are recorded in DynamoDB.
func (c *Config) AuditEnabled() bool {
	return !c.LocalMode && c.AuditTableName != ""
}
