// Copyright 2023 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Debug    DebugConfig    `yaml:"debug"`
	Provider ProviderConfig `yaml:"provider"`
	Search   SearchConfig   `yaml:"search"`
	State    StateConfig    `yaml:"state"`
}

type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
	Debug bool   `yaml:"debug" envconfig:"LOGGING_DEBUG"`
}

type DebugConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DEBUG_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"DEBUG_PORT"`
}

type MetricsConfig struct {
	ListenAddress string `yaml:"address" envconfig:"METRICS_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"METRICS_LISTEN_PORT"`
}

type ProviderConfig struct {
	BaseUrl string        `yaml:"baseUrl" envconfig:"PROVIDER_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"PROVIDER_TIMEOUT"`
}

type SearchConfig struct {
	Workers          int    `yaml:"workers"          envconfig:"SEARCH_WORKERS"`
	ProgressInterval uint64 `yaml:"progressInterval" envconfig:"SEARCH_PROGRESS_INTERVAL"`
}

type StateConfig struct {
	// An empty directory keeps the search cache in memory
	Directory     string `yaml:"dir"           envconfig:"STATE_DIR"`
	CacheSearches bool   `yaml:"cacheSearches" envconfig:"STATE_CACHE_SEARCHES"`
}

// Singleton config instance with default values
var globalConfig = &Config{
	Logging: LoggingConfig{
		Level: "info",
	},
	Debug: DebugConfig{
		ListenAddress: "localhost",
		ListenPort:    0,
	},
	Metrics: MetricsConfig{
		ListenAddress: "",
		ListenPort:    0,
	},
	Provider: ProviderConfig{
		BaseUrl: "https://blockchain.info",
		Timeout: 30 * time.Second,
	},
	Search: SearchConfig{
		Workers:          1,
		ProgressInterval: 1_000_000,
	},
	State: StateConfig{
		Directory:     "./.state",
		CacheSearches: true,
	},
}

func Load(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Load config values from environment variables
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	err := envconfig.Process("dummy", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

func (c *Config) validate() error {
	if c.Search.Workers < 1 {
		return fmt.Errorf(
			"invalid search worker count: %d",
			c.Search.Workers,
		)
	}
	if c.Provider.BaseUrl == "" {
		return errors.New("provider base URL must not be empty")
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf(
			"invalid provider timeout: %s",
			c.Provider.Timeout,
		)
	}
	return nil
}

// GetConfig returns the global config instance
func GetConfig() *Config {
	return globalConfig
}
