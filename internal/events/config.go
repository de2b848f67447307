package events

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects and configures the event sinks.
type Config struct {
	Sinks struct {
		Webhook WebhookConfig `yaml:"webhook"`
		Redis   RedisConfig   `yaml:"redis"`
		Kafka   KafkaConfig   `yaml:"kafka"`
	} `yaml:"sinks"`
	Retry RetryConfig `yaml:"retry"`
}

// LoadConfig reads YAML from path. An empty path returns the zero value
// (no sinks, default retry).
func LoadConfig(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("events: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("events: parse config: %w", err)
	}
	return c, nil
}
