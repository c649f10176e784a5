package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvDevelopment enables debug logging.
	EnvDevelopment = "development"

	// MaxChannels bounds the channel counts the setup panel offers.
	MaxChannels = 8
)

// Config holds all application configuration.
type Config struct {
	Env string `envconfig:"ENV" default:"development"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"passthru.log"`

	// Audio settings
	AudioBackend   string `envconfig:"AUDIO_BACKEND"`
	SampleRate     int    `envconfig:"SAMPLE_RATE" default:"48000"`
	BufferSize     int    `envconfig:"BUFFER_SIZE" default:"256"`
	InputChannels  int    `envconfig:"INPUT_CHANNELS" default:"2"`
	OutputChannels int    `envconfig:"OUTPUT_CHANNELS" default:"2"`
	NoiseSeed      uint64 `envconfig:"NOISE_SEED" default:"0"`

	// UI settings
	CPUPollInterval time.Duration `envconfig:"CPU_POLL_INTERVAL" default:"50ms"`

	// Status server settings (serve command)
	ListenAddr   string   `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8080"`
	AllowedHosts []string `envconfig:"ALLOWED_HOSTS"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks value ranges envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("SAMPLE_RATE must be positive, got %d", c.SampleRate))
	}
	if c.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("BUFFER_SIZE must be positive, got %d", c.BufferSize))
	}
	if c.InputChannels < 0 || c.InputChannels > MaxChannels {
		errs = append(errs, fmt.Errorf("INPUT_CHANNELS must be within 0..%d, got %d", MaxChannels, c.InputChannels))
	}
	if c.OutputChannels < 1 || c.OutputChannels > MaxChannels {
		errs = append(errs, fmt.Errorf("OUTPUT_CHANNELS must be within 1..%d, got %d", MaxChannels, c.OutputChannels))
	}
	if c.CPUPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("CPU_POLL_INTERVAL must be positive, got %s", c.CPUPollInterval))
	}

	return errors.Join(errs...)
}
