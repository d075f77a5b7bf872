package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const (
	ConfigEnvVar      = "A11YSCAN_CONFIG"
	DefaultConfigFile = "config.yml"
)

// Config is the global YAML configuration of a11yscan.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Scanner    Scanner    `yaml:"scanner"`
}

type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Scanner holds defaults for the source pattern scan. Command line flags take precedence.
type Scanner struct {
	Catalog      string        `yaml:"catalog"`       // Path or http(s) URL of the pattern catalog
	Boundaries   string        `yaml:"boundaries"`    // Path of the framework source boundaries file
	Exclude      []string      `yaml:"exclude"`       // Extra doublestar globs excluded from discovery
	MaxFileSize  int64         `yaml:"max_file_size"` // Files larger than this are skipped, in bytes
	MatchTimeout time.Duration `yaml:"match_timeout"` // Per line regex evaluation limit
	Jobs         int           `yaml:"jobs"`          // Number of patterns scanned concurrently
	Output       string        `yaml:"output"`        // Default output file or folder
}

// ValidateConfigPath checks that the path exists and is a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.SetStrict(true)
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// NewConfig reads the configuration file. An empty path yields the built-in defaults.
func NewConfig(configPath string) (*Config, error) {
	cfg := &Config{}
	if configPath == "" {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	return cfg, nil
}

// ResolveConfigPath picks the configuration file: the explicit path, then A11YSCAN_CONFIG,
// then DefaultConfigFile when it exists. An empty result means built-in defaults.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env
	}
	if ValidateConfigPath(DefaultConfigFile) == nil {
		return DefaultConfigFile
	}
	return ""
}
