package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Game struct {
		SweepInterval   string `yaml:"sweep_interval"`
		CompletionBonus int    `yaml:"completion_bonus"`
	} `yaml:"game"`
	Chat struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		AppName string `yaml:"app_name"`
	} `yaml:"chat"`
}

// Load reads YAML config from path and fills chat settings from the
// environment (API_KEY, BASE_URL, APP_NAME) with hardcoded fallbacks when
// unset.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyChatDefaults(&cfg)
	return cfg, nil
}

// Default returns a config usable without any file on disk.
func Default() Config {
	cfg := Config{}
	applyChatDefaults(&cfg)
	return cfg
}

func applyChatDefaults(cfg *Config) {
	cfg.Chat.APIKey = firstNonEmpty(cfg.Chat.APIKey, os.Getenv("API_KEY"), "")
	cfg.Chat.BaseURL = firstNonEmpty(cfg.Chat.BaseURL, os.Getenv("BASE_URL"), "https://api.openai.com/v1")
	cfg.Chat.AppName = firstNonEmpty(cfg.Chat.AppName, os.Getenv("APP_NAME"), "LearnHub")
	cfg.Chat.Model = firstNonEmpty(cfg.Chat.Model, "gpt-4o-mini")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
