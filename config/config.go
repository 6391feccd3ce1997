// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads scout settings from a YAML file, SCOUT_* environment
// variables and built-in defaults, in increasing order of precedence:
// defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/scout/ai"
	"github.com/poiesic/scout/drafting"
	"github.com/poiesic/scout/search"
	"github.com/poiesic/scout/summary"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SCOUT_AI_MODEL.
const EnvPrefix = "SCOUT"

// Config stores all configuration of the application.
type Config struct {
	AI      AIConfig      `mapstructure:"ai"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Search  SearchConfig  `mapstructure:"search"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
}

// AIConfig selects the generative backend.
type AIConfig struct {
	Host        string        `mapstructure:"host"`
	Model       string        `mapstructure:"model"`
	Token       string        `mapstructure:"token"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// DatasetConfig locates the profiles database.
type DatasetConfig struct {
	Path      string `mapstructure:"path"`       // SQLite file; empty means in-memory
	ImportCSV string `mapstructure:"import_csv"` // optional CSV loaded at startup
}

// SearchConfig tunes the turn engine.
type SearchConfig struct {
	MaxRows          int           `mapstructure:"max_rows"`
	WindowSize       int           `mapstructure:"window_size"`
	SummaryThreshold int           `mapstructure:"summary_threshold"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout"`
	Disclosure       string        `mapstructure:"disclosure"`
}

// CacheConfig controls the summary cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"` // badger directory; empty means in-memory
	TTL     time.Duration `mapstructure:"ttl"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Metrics      bool          `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	aiDefaults := ai.DefaultConfig()
	v.SetDefault("ai.host", aiDefaults.Host)
	v.SetDefault("ai.model", aiDefaults.Model)
	v.SetDefault("ai.token", aiDefaults.Token)
	v.SetDefault("ai.temperature", aiDefaults.Temperature)
	v.SetDefault("ai.timeout", aiDefaults.Timeout)

	v.SetDefault("dataset.path", "scout.db")
	v.SetDefault("dataset.import_csv", "")

	v.SetDefault("search.max_rows", search.DefaultMaxRows)
	v.SetDefault("search.window_size", drafting.DefaultWindowSize)
	v.SetDefault("search.summary_threshold", summary.DefaultThreshold)
	v.SetDefault("search.query_timeout", search.DefaultQueryTimeout)
	v.SetDefault("search.disclosure", search.DefaultDisclosure)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 180*time.Second)
	v.SetDefault("server.metrics", true)
}

// Load reads configuration. An empty path searches ./scout.yaml and
// ~/.config/scout/scout.yaml; a missing file is not an error in that case.
// An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/scout")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// AIConfig converts the ai section into a normalized ai.Config.
func (c *Config) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithHost(c.AI.Host),
		ai.WithModel(c.AI.Model),
		ai.WithToken(c.AI.Token),
		ai.WithTemperature(c.AI.Temperature),
		ai.WithTimeout(c.AI.Timeout),
	)
	cfg.Normalize()
	return cfg
}

// SearchOptions converts the search section into searcher options.
// The backend timeout follows the ai section.
func (c *Config) SearchOptions() []search.Option {
	return []search.Option{
		search.WithMaxRows(c.Search.MaxRows),
		search.WithWindowSize(c.Search.WindowSize),
		search.WithSummaryThreshold(c.Search.SummaryThreshold),
		search.WithQueryTimeout(c.Search.QueryTimeout),
		search.WithBackendTimeout(c.AI.Timeout),
		search.WithDisclosure(c.Search.Disclosure),
	}
}
