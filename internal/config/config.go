// Package config loads service configuration from config.yaml with
// environment-variable overrides (a .env file is honored if present).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		DB       int    `yaml:"db"`
		Password string `yaml:"password"`
	} `yaml:"redis"`

	Store struct {
		// Driver selects the KV backend: "redis" or "memory".
		Driver string `yaml:"driver"`
	} `yaml:"store"`

	Storage struct {
		UploadDir string `yaml:"upload_dir"`
		ResultDir string `yaml:"result_dir"`
	} `yaml:"storage"`

	Queue struct {
		// Driver selects the dispatcher: "local" or "temporal".
		Driver   string `yaml:"driver"`
		Workers  int    `yaml:"workers"`
		Temporal struct {
			HostPort  string `yaml:"host_port"`
			Namespace string `yaml:"namespace"`
			TaskQueue string `yaml:"task_queue"`
		} `yaml:"temporal"`
	} `yaml:"queue"`

	Transcriber struct {
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"base_url"`
		Language string `yaml:"language"`
		Prompt   string `yaml:"prompt"`
	} `yaml:"transcriber"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8090"
	cfg.Redis.Host = "localhost"
	cfg.Redis.Port = 6379
	cfg.Store.Driver = "redis"
	cfg.Storage.UploadDir = "storage"
	cfg.Storage.ResultDir = "result"
	cfg.Queue.Driver = "local"
	cfg.Queue.Workers = 2
	cfg.Queue.Temporal.HostPort = "localhost:7233"
	cfg.Queue.Temporal.Namespace = "default"
	cfg.Queue.Temporal.TaskQueue = "STT_TASK_QUEUE"
	cfg.Transcriber.Language = "zh"
	cfg.Transcriber.Prompt = "以下是简体中文普通话的句子。"
	return cfg
}

// Load reads path (if it exists) over the defaults and then applies
// environment overrides. A missing config file is not an error.
func Load(path string) (*Config, error) {
	// Environment variables may come from a .env file; missing is fine.
	_ = godotenv.Load()

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvInt("REDIS_PORT", c.Redis.Port)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Storage.UploadDir = getEnv("UPLOAD_DIR", c.Storage.UploadDir)
	c.Storage.ResultDir = getEnv("RESULT_DIR", c.Storage.ResultDir)
	c.Queue.Driver = getEnv("QUEUE_DRIVER", c.Queue.Driver)
	c.Queue.Temporal.HostPort = getEnv("TEMPORAL_HOST", c.Queue.Temporal.HostPort)
	c.Queue.Temporal.Namespace = getEnv("TEMPORAL_NAMESPACE", c.Queue.Temporal.Namespace)
	c.Queue.Temporal.TaskQueue = getEnv("TASK_QUEUE", c.Queue.Temporal.TaskQueue)
	c.Transcriber.Model = getEnv("WHISPER_MODEL", c.Transcriber.Model)
	c.Transcriber.BaseURL = getEnv("OPENAI_BASE_URL", c.Transcriber.BaseURL)
}

// RedisAddr returns the host:port address of the redis backend.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
