package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeSMTP    = "smtp"
	TypeStdout  = "stdout"
	TypeHTTP    = "http"
	TypeSQS     = "sqs"
	TypeSNS     = "sns"
	TypePubSub  = "pubsub"
	TypeArchive = "archive"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
	smtpDefaultPort           = 587
)

// configFile represents the structure of the publishers configuration file.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig represents a single publisher entry declared in config files.
type PublisherConfig struct {
	ID      string                  `json:"id" yaml:"id"`
	Type    string                  `json:"type" yaml:"type"`
	Enabled *bool                   `json:"enabled" yaml:"enabled"`
	SMTP    *SMTPPublisherConfig    `json:"smtp" yaml:"smtp"`
	Stdout  *StdoutPublisherConfig  `json:"stdout" yaml:"stdout"`
	HTTP    *HTTPPublisherConfig    `json:"http" yaml:"http"`
	SQS     *SQSPublisherConfig     `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig     `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig  `json:"pubsub" yaml:"pubsub"`
	Archive *ArchivePublisherConfig `json:"archive" yaml:"archive"`
}

// SMTPPublisherConfig holds mail delivery settings. The password is resolved
// from the named environment variable at build time, never stored in the file.
type SMTPPublisherConfig struct {
	Host        string   `json:"host" yaml:"host"`
	Port        int      `json:"port" yaml:"port"`
	Username    string   `json:"username" yaml:"username"`
	PasswordEnv string   `json:"password_env" yaml:"password_env"`
	From        string   `json:"from" yaml:"from"`
	To          []string `json:"to" yaml:"to"`
}

// StdoutPublisherConfig selects the stdout output format.
type StdoutPublisherConfig struct {
	Format string `json:"format" yaml:"format"` // "html" or "json"
}

// HTTPPublisherConfig holds generic HTTP sink settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL string `json:"queue_url" yaml:"queue_url"`
	Region   string `json:"region" yaml:"region"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN string `json:"topic_arn" yaml:"topic_arn"`
	Region   string `json:"region" yaml:"region"`
}

// PubSubPublisherConfig holds GCP Pub/Sub specific settings.
type PubSubPublisherConfig struct {
	ProjectID string `json:"project_id" yaml:"project_id"`
	Topic     string `json:"topic" yaml:"topic"`
}

// ArchivePublisherConfig holds local digest archive settings.
type ArchivePublisherConfig struct {
	Path string `json:"path" yaml:"path"`
}

// ConfigRegistry materializes publisher definitions loaded from config files.
type ConfigRegistry struct {
	mu         sync.RWMutex
	publishers []PublisherConfig
	idx        map[string]PublisherConfig
}

// LoadRegistry loads the publisher registry from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open publishers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	fileReg, err := parsePublisherRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, len(fileReg.Publishers)),
		idx:        make(map[string]PublisherConfig, len(fileReg.Publishers)),
	}

	for i := range fileReg.Publishers {
		cfg := sanitizePublisherConfig(fileReg.Publishers[i])
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.publishers[i] = cfg
		reg.idx[cfg.ID] = cfg
	}

	return reg, nil
}

// Enabled returns the publisher configs that are not explicitly disabled.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []PublisherConfig
	for _, cfg := range r.publishers {
		if cfg.Enabled == nil || *cfg.Enabled {
			out = append(out, cfg)
		}
	}
	return out
}

// parsePublisherRegistry attempts to decode the publishers file content.
func parsePublisherRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg configFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("publishers file format not recognized (expected YAML or JSON)")
}

func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.TrimSpace(strings.ToLower(cfg.Type))

	if cfg.HTTP != nil {
		cfg.HTTP.Method = strings.ToUpper(strings.TrimSpace(cfg.HTTP.Method))
		if cfg.HTTP.Method == "" {
			cfg.HTTP.Method = httpDefaultMethod
		}
		if cfg.HTTP.TimeoutSeconds <= 0 {
			cfg.HTTP.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
	}
	if cfg.SMTP != nil && cfg.SMTP.Port <= 0 {
		cfg.SMTP.Port = smtpDefaultPort
	}

	return cfg
}

func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	}

	switch cfg.Type {
	case TypeSMTP:
		if cfg.SMTP == nil {
			return fmt.Errorf("publisher %q missing smtp configuration", cfg.ID)
		}
		if cfg.SMTP.Host == "" || cfg.SMTP.From == "" || len(cfg.SMTP.To) == 0 {
			return fmt.Errorf("publisher %q smtp requires host, from, and to", cfg.ID)
		}
	case TypeHTTP:
		if cfg.HTTP == nil || cfg.HTTP.URL == "" {
			return fmt.Errorf("publisher %q http requires a url", cfg.ID)
		}
	case TypeSQS:
		if cfg.SQS == nil || cfg.SQS.QueueURL == "" {
			return fmt.Errorf("publisher %q sqs requires a queue_url", cfg.ID)
		}
	case TypeSNS:
		if cfg.SNS == nil || cfg.SNS.TopicARN == "" {
			return fmt.Errorf("publisher %q sns requires a topic_arn", cfg.ID)
		}
	case TypePubSub:
		if cfg.PubSub == nil || cfg.PubSub.ProjectID == "" || cfg.PubSub.Topic == "" {
			return fmt.Errorf("publisher %q pubsub requires project_id and topic", cfg.ID)
		}
	case TypeArchive:
		if cfg.Archive == nil || cfg.Archive.Path == "" {
			return fmt.Errorf("publisher %q archive requires a path", cfg.ID)
		}
	case TypeStdout:
		// no required settings
	default:
		return fmt.Errorf("unknown publisher type %q", cfg.Type)
	}
	return nil
}
