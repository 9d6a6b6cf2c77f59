// Package config loads process configuration from CASEBOOK_* environment
// variables, optionally overridden by bound command line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	liststr "casebook/pkg/platform/strings"
)

// EnvPrefix is prepended to every key, e.g. CASEBOOK_SUBGRAPH_URL.
const EnvPrefix = "CASEBOOK"

// Config is the full runtime configuration.
type Config struct {
	Server       Server
	Source       SourceConfig
	Redis        RedisConfig
	Action       ActionConfig
	Law          LawConfig
	Kafka        KafkaConfig
	Log          LogConfig
	Jurisdiction string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// SourceConfig selects the record source. The first non-empty of
// DatabaseURL, SubgraphURL and SeedFile wins.
type SourceConfig struct {
	SubgraphURL string
	DatabaseURL string
	SeedFile    string
}

// RedisConfig configures the shared action cache. An empty URL keeps the
// cache in process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type ActionConfig struct {
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

type LawConfig struct {
	ResolveConcurrency int
}

// KafkaConfig configures the submission relay. No brokers means submissions
// are validated but not published.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type LogConfig struct {
	Level  string
	Format string
}

// SourceKind names the configured record source.
type SourceKind string

const (
	SourcePostgres SourceKind = "postgres"
	SourceSubgraph SourceKind = "subgraph"
	SourceMemory   SourceKind = "memory"
)

// Kind reports which record source the configuration selects.
func (s SourceConfig) Kind() (SourceKind, error) {
	switch {
	case s.DatabaseURL != "":
		return SourcePostgres, nil
	case s.SubgraphURL != "":
		return SourceSubgraph, nil
	case s.SeedFile != "":
		return SourceMemory, nil
	}
	return "", fmt.Errorf("no record source configured: set %s_DATABASE_URL, %s_SUBGRAPH_URL or %s_SEED_FILE",
		EnvPrefix, EnvPrefix, EnvPrefix)
}

// NewViper returns a viper instance reading CASEBOOK_* variables with all
// defaults applied. Callers may bind flags on it before calling FromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("shutdown-timeout", 10*time.Second)
	v.SetDefault("subgraph-url", "")
	v.SetDefault("database-url", "")
	v.SetDefault("seed-file", "")
	v.SetDefault("redis-url", "")
	v.SetDefault("redis-pool-size", 10)
	v.SetDefault("redis-min-idle-conns", 2)
	v.SetDefault("redis-dial-timeout", 5*time.Second)
	v.SetDefault("redis-read-timeout", 3*time.Second)
	v.SetDefault("redis-write-timeout", 3*time.Second)
	v.SetDefault("action-cache-ttl", 5*time.Minute)
	v.SetDefault("action-fetch-timeout", 10*time.Second)
	v.SetDefault("resolve-concurrency", 8)
	v.SetDefault("jurisdiction", "")
	v.SetDefault("kafka-brokers", "")
	v.SetDefault("submission-topic", "casebook.case-submissions")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")
	return v
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	return FromViper(NewViper())
}

// FromViper builds a Config from v and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:            v.GetString("addr"),
			ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		},
		Source: SourceConfig{
			SubgraphURL: strings.TrimSpace(v.GetString("subgraph-url")),
			DatabaseURL: strings.TrimSpace(v.GetString("database-url")),
			SeedFile:    strings.TrimSpace(v.GetString("seed-file")),
		},
		Redis: RedisConfig{
			URL:          strings.TrimSpace(v.GetString("redis-url")),
			PoolSize:     v.GetInt("redis-pool-size"),
			MinIdleConns: v.GetInt("redis-min-idle-conns"),
			DialTimeout:  v.GetDuration("redis-dial-timeout"),
			ReadTimeout:  v.GetDuration("redis-read-timeout"),
			WriteTimeout: v.GetDuration("redis-write-timeout"),
		},
		Action: ActionConfig{
			CacheTTL:     v.GetDuration("action-cache-ttl"),
			FetchTimeout: v.GetDuration("action-fetch-timeout"),
		},
		Law: LawConfig{
			ResolveConcurrency: v.GetInt("resolve-concurrency"),
		},
		Kafka: KafkaConfig{
			Brokers: liststr.SplitList(v.GetString("kafka-brokers"), ","),
			Topic:   v.GetString("submission-topic"),
		},
		Log: LogConfig{
			Level:  v.GetString("log-level"),
			Format: v.GetString("log-format"),
		},
		Jurisdiction: strings.TrimSpace(v.GetString("jurisdiction")),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Action.CacheTTL <= 0 {
		return fmt.Errorf("%s_ACTION_CACHE_TTL must be positive", EnvPrefix)
	}
	if c.Law.ResolveConcurrency <= 0 {
		return fmt.Errorf("%s_RESOLVE_CONCURRENCY must be positive", EnvPrefix)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("%s_SUBMISSION_TOPIC is required when brokers are set", EnvPrefix)
	}
	return nil
}
