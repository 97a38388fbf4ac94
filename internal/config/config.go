// Package config provides explicit configuration for the assistant.
// Components receive values from here rather than reading shared global
// state, which keeps the pipeline testable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	// GeminiAPIKey is the ambient credential. Empty is legal: generation
	// then degrades to labeled mock responses.
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// PrimaryModel and FallbackModel name the two backends of the
	// invocation chain, tried in that order.
	PrimaryModel  string `yaml:"primary_model"`
	FallbackModel string `yaml:"fallback_model"`

	// Transport selects the Gemini client implementation: "sdk" or "http".
	Transport string `yaml:"transport"`

	// RequestTimeout bounds one backend attempt.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Port is the HTTP listen port.
	Port string `yaml:"port"`

	// OCRLanguage is the Tesseract trained-data code.
	OCRLanguage string `yaml:"ocr_language"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		PrimaryModel:   "gemini-1.5-pro",
		FallbackModel:  "gemini-pro",
		Transport:      "sdk",
		RequestTimeout: 45 * time.Second,
		Port:           "8080",
		OCRLanguage:    "eng",
	}
}

// Load builds the configuration: defaults, overlaid by the YAML file at
// path when non-empty, overlaid by environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_PRIMARY_MODEL"); v != "" {
		c.PrimaryModel = v
	}
	if v := os.Getenv("GEMINI_FALLBACK_MODEL"); v != "" {
		c.FallbackModel = v
	}
	if v := os.Getenv("GEMINI_TRANSPORT"); v != "" {
		c.Transport = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("OCR_LANGUAGE"); v != "" {
		c.OCRLanguage = v
	}
	if v := os.Getenv("LLM_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.RequestTimeout = time.Duration(ms) * time.Millisecond
		}
	}
}

// Validate checks structural validity. A missing API key is not an error;
// callers may warn about it separately.
func (c *Config) Validate() error {
	if c.PrimaryModel == "" {
		return fmt.Errorf("primary_model is required")
	}
	if c.FallbackModel == "" {
		return fmt.Errorf("fallback_model is required")
	}
	if c.Transport != "sdk" && c.Transport != "http" {
		return fmt.Errorf("transport must be \"sdk\" or \"http\", got %q", c.Transport)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	return nil
}

// Warnings lists non-fatal configuration gaps worth logging at startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.GeminiAPIKey == "" {
		out = append(out, "GEMINI_API_KEY is not set; AI responses will be mocked")
	}
	return out
}
