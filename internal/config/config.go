package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/genflow/prbridge/internal/fault"
)

// Config represents the bridge configuration.
type Config struct {
	Server      ServerConfig `yaml:"server"`
	Environment string       `yaml:"environment"`
	APIVersion  string       `yaml:"api_version"`
	GitHub      GitHubConfig `yaml:"github"`
	Notion      NotionConfig `yaml:"notion"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GitHubConfig holds inbound webhook settings.
type GitHubConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
}

// NotionConfig holds remote task store settings.
type NotionConfig struct {
	Token          string `yaml:"token"`
	DatabaseID     string `yaml:"database_id"`
	TaskIDProperty string `yaml:"task_id_property"`
	StatusProperty string `yaml:"status_property"`
	TaskIDPrefix   string `yaml:"task_id_prefix"`
	DryRun         bool   `yaml:"dry_run"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 7100,
		},
		Environment: "development",
		APIVersion:  "0.0.0",
		Notion: NotionConfig{
			TaskIDProperty: "Task ID",
			StatusProperty: "Status",
			TaskIDPrefix:   "GEN",
		},
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Permissive reports whether the signature requirement is relaxed. Only the
// development environment runs without signed webhooks.
func (c *Config) Permissive() bool {
	return c.Environment == "development"
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return fault.New(fault.KindConfig, "notion.token is required")
	}
	if c.Notion.DatabaseID == "" {
		return fault.New(fault.KindConfig, "notion.database_id is required")
	}
	if c.Notion.TaskIDPrefix == "" {
		return fault.New(fault.KindConfig, "notion.task_id_prefix is required")
	}
	if c.GitHub.WebhookSecret == "" && !c.Permissive() {
		return fault.Newf(fault.KindConfig,
			"github.webhook_secret is required in the %s environment", c.Environment)
	}
	return nil
}
