package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	CatalogFile    string   `mapstructure:"catalog_file"`
	PublishersFile string   `mapstructure:"publishers_file"`
	ExtraFeedURL   string   `mapstructure:"feed_url"`
	ExtraFeedURLs  []string `mapstructure:"extra_feed_urls"`

	WindowHours     int  `mapstructure:"window_hours"`
	MaxPosts        int  `mapstructure:"max_posts"`
	MaxPostsPerFeed int  `mapstructure:"max_posts_per_feed"`
	DropUndated     bool `mapstructure:"drop_undated"`
	SendEmpty       bool `mapstructure:"send_empty"`

	TargetLanguage  string `mapstructure:"target_language"`
	SummaryMaxChars int    `mapstructure:"summary_max_chars"`

	LLMEndpoint string `mapstructure:"llm_endpoint"`
	LLMModel    string `mapstructure:"llm_model"`
	LLMAPIKey   string `mapstructure:"llm_api_key"`

	FetchTimeoutSeconds     int64         `mapstructure:"fetch_timeout_seconds"`
	FetchConcurrency        int           `mapstructure:"fetch_concurrency"`
	TranslateTimeoutSeconds int64         `mapstructure:"translate_timeout_seconds"`
	TranslateConcurrency    int           `mapstructure:"translate_concurrency"`
	TranslateRetries        int           `mapstructure:"translate_retries"`
	FetchTimeout            time.Duration `mapstructure:"-"`
	TranslateTimeout        time.Duration `mapstructure:"-"`

	SubjectPrefix string `mapstructure:"subject_prefix"`
	FailureLog    string `mapstructure:"failure_log"`
	Schedule      string `mapstructure:"schedule"`
}

// OverrideFeeds returns the ad-hoc feed URLs supplied outside the catalog,
// in a stable order with blanks removed.
func (c *Config) OverrideFeeds() []string {
	var out []string
	if s := strings.TrimSpace(c.ExtraFeedURL); s != "" {
		out = append(out, s)
	}
	for _, u := range c.ExtraFeedURLs {
		if s := strings.TrimSpace(u); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "lingua-digest")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_file", "./configs/feeds.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("feed_url", "")
	v.SetDefault("extra_feed_urls", []string{})
	v.SetDefault("window_hours", 24)
	v.SetDefault("max_posts", -1)
	v.SetDefault("max_posts_per_feed", -1)
	v.SetDefault("drop_undated", false)
	v.SetDefault("send_empty", false)
	v.SetDefault("target_language", "Chinese (Traditional)")
	v.SetDefault("summary_max_chars", 300)
	v.SetDefault("llm_endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("llm_model", "")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("fetch_timeout_seconds", 20)
	v.SetDefault("fetch_concurrency", 5)
	v.SetDefault("translate_timeout_seconds", 60)
	v.SetDefault("translate_concurrency", 3)
	v.SetDefault("translate_retries", 3)
	v.SetDefault("subject_prefix", "Blog Digest")
	v.SetDefault("failure_log", "")
	v.SetDefault("schedule", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	cfg.TranslateTimeout = time.Duration(cfg.TranslateTimeoutSeconds) * time.Second

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.CatalogFile == "" {
		return fmt.Errorf("catalog_file is required")
	}
	if cfg.WindowHours <= 0 {
		return fmt.Errorf("invalid window_hours (must be positive)")
	}
	if cfg.SummaryMaxChars <= 0 {
		return fmt.Errorf("invalid summary_max_chars (must be positive)")
	}
	if cfg.LLMModel == "" {
		return fmt.Errorf("llm_model is required")
	}
	if cfg.LLMAPIKey == "" {
		return fmt.Errorf("llm_api_key is required")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	if cfg.TranslateTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid translate_timeout_seconds (must be positive seconds)")
	}
	if cfg.FetchConcurrency <= 0 {
		return fmt.Errorf("invalid fetch_concurrency (must be positive)")
	}
	if cfg.TranslateConcurrency <= 0 {
		return fmt.Errorf("invalid translate_concurrency (must be positive)")
	}
	if cfg.TranslateRetries < 0 {
		return fmt.Errorf("invalid translate_retries (must not be negative)")
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
	}
	return nil
}
