package config

import (
	"crypto/tls"
	"time"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int           // Number of retries for failed requests
	RetryWaitTime    time.Duration // Wait time between retries
	RetryMaxWaitTime time.Duration // Maximum wait time for retries
	Timeout          time.Duration // Timeout for requests
	TLSClientConfig  *tls.Config   // TLS configuration
	Proxy            string        // Proxy address
}

// RestyHTTPClientConfig holds additional configuration settings for the Resty HTTP client.
type RestyHTTPClientConfig struct {
	BaseHTTPConfig
	Debug bool // Flag to enable Resty debug mode
}

// DefaultHTTPConfig returns a base configuration for HTTP clients with default values.
func DefaultHTTPConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       3,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 5 * time.Second,
		Timeout:          30 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns a default configuration for the Resty HTTP client, extending the base HTTP configuration.
func DefaultRestyConfig() RestyHTTPClientConfig {
	return RestyHTTPClientConfig{
		BaseHTTPConfig: DefaultHTTPConfig(),
		Debug:          false,
	}
}

const (
	DefaultMaxFileSize  int64 = 2 * 1024 * 1024
	DefaultMatchTimeout       = 1 * time.Second
	DefaultJobs               = 1
	DefaultOutputFolder       = "audit"
)

// GetMaxFileSize returns the configured file size limit or the default one.
func GetMaxFileSize(cfg *Config) int64 {
	if cfg == nil {
		return DefaultMaxFileSize
	}
	return SetThen(cfg.Scanner.MaxFileSize, DefaultMaxFileSize)
}

// GetMatchTimeout returns the configured per line regex timeout or the default one.
func GetMatchTimeout(cfg *Config) time.Duration {
	if cfg == nil {
		return DefaultMatchTimeout
	}
	return SetThen(cfg.Scanner.MatchTimeout, DefaultMatchTimeout)
}

// GetJobs returns the configured number of concurrent pattern scans.
func GetJobs(cfg *Config) int {
	if cfg == nil {
		return DefaultJobs
	}
	return SetThen(cfg.Scanner.Jobs, DefaultJobs)
}

// GetOutput returns the configured output location or the default folder.
func GetOutput(cfg *Config) string {
	if cfg == nil {
		return DefaultOutputFolder
	}
	return SetThen(cfg.Scanner.Output, DefaultOutputFolder)
}
