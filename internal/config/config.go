package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	IPv6              bool     `mapstructure:"ipv6"`
	TimeoutMs         uint32   `mapstructure:"timeout_ms"`
	Multithreading    bool     `mapstructure:"multithreading"`
	Compression       bool     `mapstructure:"compression"`
	FastOpen          bool     `mapstructure:"fast_open"`
	DecompressBackend string   `mapstructure:"decompress_backend"`
	ReceiveBufferSize int      `mapstructure:"receive_buffer_size"`
	Port              int      `mapstructure:"port"`
	Headers           []string `mapstructure:"headers"`
	BenchRate         float64  `mapstructure:"bench_rate"`
	BenchCount        int      `mapstructure:"bench_count"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		IPv6:              false,
		TimeoutMs:         5000, // 5s
		Multithreading:    true,
		Compression:       true,
		FastOpen:          true,
		DecompressBackend: "klauspost",
		ReceiveBufferSize: 4096, // 4KB, grown from Content-Length
		Port:              80,
		Headers:           []string{"User-Agent: quickget"},
		BenchRate:         2, // requests per second
		BenchCount:        5,
	}
}

// Timeout returns the configured timeout; zero means no timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// HeaderBlock joins the extra header lines into CRLF-terminated text.
func (c *Config) HeaderBlock() string {
	var sb strings.Builder
	for _, h := range c.Headers {
		h = strings.TrimRight(h, "\r\n")
		if h == "" {
			continue
		}
		sb.WriteString(h)
		sb.WriteString("\r\n")
	}
	return sb.String()
}

// Validate rejects values the fetch core cannot work with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ReceiveBufferSize <= 0 {
		return fmt.Errorf("receive_buffer_size must be positive, got %d", c.ReceiveBufferSize)
	}
	if c.BenchRate < 0 {
		return fmt.Errorf("bench_rate must not be negative, got %.2f", c.BenchRate)
	}
	return nil
}

func setDefaults(v *viper.Viper, config *Config) {
	v.SetDefault("ipv6", config.IPv6)
	v.SetDefault("timeout_ms", config.TimeoutMs)
	v.SetDefault("multithreading", config.Multithreading)
	v.SetDefault("compression", config.Compression)
	v.SetDefault("fast_open", config.FastOpen)
	v.SetDefault("decompress_backend", config.DecompressBackend)
	v.SetDefault("receive_buffer_size", config.ReceiveBufferSize)
	v.SetDefault("port", config.Port)
	v.SetDefault("headers", config.Headers)
	v.SetDefault("bench_rate", config.BenchRate)
	v.SetDefault("bench_count", config.BenchCount)
}

// LoadConfig loads configuration from file and QUICKGET_* environment variables
func LoadConfig() (*Config, error) {
	config := DefaultConfig()
	v := viper.New()
	setDefaults(v, config)

	v.SetConfigName("quickget")
	v.SetConfigType("yaml")

	// Add config paths in order of priority
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "quickget"))
		v.AddConfigPath(homeDir)
	}
	v.AddConfigPath("/etc/quickget")
	v.AddConfigPath(".")

	v.SetEnvPrefix("QUICKGET")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but could not be read; report it instead of silently using defaults
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

var configFileUsed string

// SaveConfig saves the configuration to ~/.config/quickget/quickget.yaml
func SaveConfig(config *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "quickget")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "quickget.yaml")

	v := viper.New()
	v.Set("ipv6", config.IPv6)
	v.Set("timeout_ms", config.TimeoutMs)
	v.Set("multithreading", config.Multithreading)
	v.Set("compression", config.Compression)
	v.Set("fast_open", config.FastOpen)
	v.Set("decompress_backend", config.DecompressBackend)
	v.Set("receive_buffer_size", config.ReceiveBufferSize)
	v.Set("port", config.Port)
	v.Set("headers", config.Headers)
	v.Set("bench_rate", config.BenchRate)
	v.Set("bench_count", config.BenchCount)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configFileUsed != "" {
		return configFileUsed
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "~/.config/quickget/quickget.yaml"
	}

	return filepath.Join(homeDir, ".config", "quickget", "quickget.yaml")
}
