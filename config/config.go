// Package config loads pdf_shuffle service settings from defaults, an optional .env
// file, an optional YAML file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxFileSize is the default maximum upload size (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// DefaultTempDir is the default directory for uploads and lock files
	DefaultTempDir = "./temp"

	// DefaultLogLevel is used when LOG_LEVEL is unset or invalid
	DefaultLogLevel = "info"

	// ConfigFileEnvVar names the environment variable pointing at a YAML config file
	ConfigFileEnvVar = "PDF_SHUFFLE_CONFIG"
)

// Config holds application configuration
type Config struct {
	Port        string `yaml:"port"`
	MaxFileSize int64  `yaml:"max_file_size"`
	TempDir     string `yaml:"temp_dir"`
	LogLevel    string `yaml:"log_level"`
	Optimize    bool   `yaml:"optimize"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:        DefaultPort,
		MaxFileSize: DefaultMaxFileSize,
		TempDir:     DefaultTempDir,
		LogLevel:    DefaultLogLevel,
	}
}

// Load builds the configuration. A missing .env file is not an error; a YAML file
// named by PDF_SHUFFLE_CONFIG must exist and parse.
func Load() (*Config, error) {
	// Values already in the environment win over .env
	_ = godotenv.Load()

	config := Default()

	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}

	config.Port = getEnv("PORT", config.Port)
	config.MaxFileSize = getEnvInt64("MAX_FILE_SIZE", config.MaxFileSize)
	config.TempDir = getEnv("TEMP_DIR", config.TempDir)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.Optimize = getEnvBool("PDF_OPTIMIZE", config.Optimize)

	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
