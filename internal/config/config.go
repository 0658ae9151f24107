// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/ranking"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/types"
)

// EnvPrefix prefixes every environment variable read by LoadConfig
const EnvPrefix = "MATCH"

// Config represents the engine configuration loaded from an optional JSON or YAML file
// and MATCH_* environment variables. Environment values win over the file.
type Config struct {
	// Storage and messaging
	DatabaseURL  string `mapstructure:"database_url" json:"database_url,omitempty"`   // PostgreSQL connection URL
	AMQPURL      string `mapstructure:"amqp_url" json:"amqp_url,omitempty"`           // RabbitMQ URL for match events
	AMQPExchange string `mapstructure:"amqp_exchange" json:"amqp_exchange,omitempty"` // Topic exchange for match events
	WebhookURL   string `mapstructure:"webhook_url" json:"webhook_url,omitempty"`     // URL receiving match events as JSON

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level,omitempty"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json,omitempty"`

	// Matching
	MinScore         *float64             `mapstructure:"min_score" json:"min_score,omitempty"`     // Composite score threshold (0-100); 0 keeps every match
	Concurrency      int                  `mapstructure:"concurrency" json:"concurrency,omitempty"` // Scoring workers; 0 uses GOMAXPROCS
	ExcludedStatuses []string             `mapstructure:"excluded_statuses" json:"excluded_statuses,omitempty"`
	Weights          types.MatchWeights   `mapstructure:"weights" json:"weights"`
	SortingWeights   types.SortingWeights `mapstructure:"sorting_weights" json:"sorting_weights"`

	// Server
	Port      int `mapstructure:"port" json:"port,omitempty"`
	RateLimit int `mapstructure:"rate_limit" json:"rate_limit,omitempty"` // Requests per minute per client; 0 disables
}

// Defaults returns the built-in configuration
func Defaults() Config {
	minScore := ranking.DefaultMinScore
	excluded := make([]string, 0, len(types.TerminalStatuses))
	for _, s := range types.TerminalStatuses {
		excluded = append(excluded, string(s))
	}
	return Config{
		AMQPExchange:     "match_events",
		LogLevel:         "info",
		MinScore:         &minScore,
		ExcludedStatuses: excluded,
		Weights:          ranking.DefaultMatchWeights(),
		SortingWeights:   ranking.DefaultSortingWeights(),
		Port:             8080,
		RateLimit:        600,
	}
}

// LoadConfig loads configuration from the file at path (JSON or YAML by extension)
// and the environment. An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Accept the conventional unprefixed names as well
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}
	if err := v.BindEnv("amqp_url", EnvPrefix+"_AMQP_URL", "AMQP_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind AMQP_URL: %w", err)
	}

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("database_url", "")
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", d.AMQPExchange)
	v.SetDefault("webhook_url", "")
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", false)
	v.SetDefault("min_score", *d.MinScore)
	v.SetDefault("concurrency", 0)
	v.SetDefault("excluded_statuses", d.ExcludedStatuses)
	v.SetDefault("weights.skill", d.Weights.Skill)
	v.SetDefault("weights.experience", d.Weights.Experience)
	v.SetDefault("weights.education", d.Weights.Education)
	v.SetDefault("weights.location", d.Weights.Location)
	v.SetDefault("sorting_weights.skill", d.SortingWeights.Skill)
	v.SetDefault("sorting_weights.experience", d.SortingWeights.Experience)
	v.SetDefault("sorting_weights.education", d.SortingWeights.Education)
	v.SetDefault("sorting_weights.recency", d.SortingWeights.Recency)
	v.SetDefault("sorting_weights.location", d.SortingWeights.Location)
	v.SetDefault("port", d.Port)
	v.SetDefault("rate_limit", d.RateLimit)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MinScore != nil && (*c.MinScore < 0 || *c.MinScore > 100) {
		return fmt.Errorf("config error: 'min_score' must be between 0 and 100")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}

	validate := validator.New()
	if err := validate.Struct(c.Weights); err != nil {
		return fmt.Errorf("config error: 'weights': %w", err)
	}
	if err := validate.Struct(c.SortingWeights); err != nil {
		return fmt.Errorf("config error: 'sorting_weights': %w", err)
	}

	for _, s := range c.ExcludedStatuses {
		if !isKnownStatus(s) {
			return fmt.Errorf("config error: unknown candidate status %q in 'excluded_statuses'", s)
		}
	}

	if c.AMQPURL != "" && c.AMQPExchange == "" {
		return errors.New("config error: 'amqp_exchange' is required when 'amqp_url' is set")
	}

	return nil
}

func isKnownStatus(s string) bool {
	switch types.CandidateStatus(strings.ToLower(strings.TrimSpace(s))) {
	case types.CandidateStatusNew, types.CandidateStatusScreening, types.CandidateStatusInterviewing,
		types.CandidateStatusOffered, types.CandidateStatusHired, types.CandidateStatusRejected,
		types.CandidateStatusWithdrawn, types.CandidateStatusArchived:
		return true
	}
	return false
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AMQPURL == "" {
		result.AMQPURL = defaults.AMQPURL
	}
	if result.AMQPExchange == "" {
		result.AMQPExchange = defaults.AMQPExchange
	}
	if result.WebhookURL == "" {
		result.WebhookURL = defaults.WebhookURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.MinScore == nil && defaults.MinScore != nil {
		minScore := *defaults.MinScore
		result.MinScore = &minScore
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	if len(result.ExcludedStatuses) == 0 {
		result.ExcludedStatuses = append([]string(nil), defaults.ExcludedStatuses...)
	}
	if result.Weights == (types.MatchWeights{}) {
		result.Weights = defaults.Weights
	}
	if result.SortingWeights == (types.SortingWeights{}) {
		result.SortingWeights = defaults.SortingWeights
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Combiner builds the weighted combiner from the configured default weights
func (c *Config) Combiner() ranking.Combiner {
	return ranking.NewCombinerWithDefaults(c.Weights, c.SortingWeights)
}

// Excluded returns the excluded statuses as typed values
func (c *Config) Excluded() []types.CandidateStatus {
	out := make([]types.CandidateStatus, 0, len(c.ExcludedStatuses))
	for _, s := range c.ExcludedStatuses {
		out = append(out, types.CandidateStatus(strings.ToLower(strings.TrimSpace(s))))
	}
	return out
}
