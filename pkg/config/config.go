// Package config holds the yaml settings file of the tlvstate CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.firedancer.io/tlvstate/pkg/rpcclient"
	"go.firedancer.io/tlvstate/pkg/sealevel"
	"gopkg.in/yaml.v3"
)

const (
	OutputYaml = "yaml"
	OutputHex  = "hex"
)

var ErrConfigNotFound = errors.New("config file does not exist")

type Config struct {
	Rpc       Rpc                 `yaml:"rpc"`
	AccountDb string              `yaml:"accounts_db"`
	Output    string              `yaml:"output"`
	Rent      sealevel.SysvarRent `yaml:"rent"`
}

type Rpc struct {
	Endpoint   string `yaml:"endpoint"`
	Commitment string `yaml:"commitment"`
}

func DefaultConfig() *Config {
	return &Config{
		Rpc: Rpc{
			Endpoint:   "https://api.mainnet-beta.solana.com",
			Commitment: "confirmed",
		},
		AccountDb: "./accounts",
		Output:    OutputYaml,
		Rent:      sealevel.DefaultRent(),
	}
}

// DefaultConfigPath is ~/.config/tlvstate/config.yaml, or a file in the
// working directory when there is no home.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./tlvstate.yaml"
	}
	return filepath.Join(homeDir, ".config", "tlvstate", "config.yaml")
}

// LoadConfig reads path on top of the defaults, so a partial file only
// overrides what it names.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigOrDefault is LoadConfig, except a missing file yields the defaults.
func LoadConfigOrDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	return config, err
}

func SaveConfig(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (config *Config) Validate() error {
	if _, err := rpcclient.ParseCommitment(config.Rpc.Commitment); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch config.Output {
	case OutputYaml, OutputHex:
	default:
		return fmt.Errorf("invalid config: unknown output format %q", config.Output)
	}
	return nil
}
