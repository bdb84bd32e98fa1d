package support

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	MemoryStore      = "memory"
	DynamoStore      = "dynamo"
	DynamoLocalStore = "dynamo-local"
	JetStreamStore   = "jetstream"
	ESDBStore        = "esdb"
)

type Config struct {
	Listen   string        `mapstructure:"listen"`
	Store    string        `mapstructure:"store"`
	DynamoDB DynamoConfig  `mapstructure:"dynamodb"`
	NATS     NATSConfig    `mapstructure:"nats"`
	ESDB     ESDBConfig    `mapstructure:"esdb"`
	Tracing  TracingConfig `mapstructure:"tracing"`
	Log      LogConfig     `mapstructure:"log"`
}

type DynamoConfig struct {
	Table string `mapstructure:"table"`
}

type NATSConfig struct {
	URL    string `mapstructure:"url"`
	Stream string `mapstructure:"stream"`
}

type ESDBConfig struct {
	URL string `mapstructure:"url"`
}

type TracingConfig struct {
	Exporter  string          `mapstructure:"exporter"`
	Honeycomb HoneycombConfig `mapstructure:"honeycomb"`
}

type HoneycombConfig struct {
	Team    string `mapstructure:"team"`
	Dataset string `mapstructure:"dataset"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Defaults registers default values and environment bindings on v. Keys can be set with
// WEE_ prefixed variables, dots replaced by underscores.
func Defaults(v *viper.Viper) {
	v.SetDefault("listen", ":9080")
	v.SetDefault("store", MemoryStore)
	v.SetDefault("dynamodb.table", "wee-events")
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.stream", "wee-events")
	v.SetDefault("esdb.url", "esdb://127.0.0.1:2113?tls=false")
	v.SetDefault("tracing.exporter", "none")
	v.SetDefault("tracing.honeycomb.team", "")
	v.SetDefault("tracing.honeycomb.dataset", "wee-counter")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("wee")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("dynamodb.table", "WEE_DYNAMODB_TABLE", "DYNAMODB_EVENTS_TABLE_NAME")
}

// Load reads the optional config file then decodes v into a Config.
func Load(v *viper.Viper, file string) (Config, error) {
	Defaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case MemoryStore, DynamoStore, DynamoLocalStore, JetStreamStore, ESDBStore:
	default:
		return errors.Errorf("unknown store %q", c.Store)
	}

	switch c.Tracing.Exporter {
	case "none", "console", "jaeger":
	case "honeycomb":
		if c.Tracing.Honeycomb.Team == "" {
			return errors.New("tracing.honeycomb.team is required for the honeycomb exporter")
		}
	default:
		return errors.Errorf("unknown tracing exporter %q", c.Tracing.Exporter)
	}

	return nil
}

func AWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}
