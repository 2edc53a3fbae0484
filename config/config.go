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


package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/docqa/chunking"
)

// AIConfig configures the OpenAI-compatible model endpoints.
type AIConfig struct {
	EmbeddingHost  string  `yaml:"embedding_host"`
	ChatHost       string  `yaml:"chat_host"`
	EmbeddingModel string  `yaml:"embedding_model"`
	ChatModel      string  `yaml:"chat_model"`
	TokenEnv       string  `yaml:"token_env"`
	Temperature    float64 `yaml:"temperature"`
}

// StorageConfig configures the vector index.
type StorageConfig struct {
	Path      string `yaml:"path"`
	Dimension int    `yaml:"dimension"`
	InMemory  bool   `yaml:"in_memory"`
}

// RetrievalConfig configures query-time retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// Config is the root application configuration.
type Config struct {
	AI        AIConfig        `yaml:"ai"`
	Chunking  chunking.Config `yaml:"chunking"`
	Storage   StorageConfig   `yaml:"storage"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			EmbeddingHost:  "http://localhost:11434/v1",
			ChatHost:       "http://localhost:11434/v1",
			EmbeddingModel: "text-embedding-3-small",
			ChatModel:      "gpt-4o",
			TokenEnv:       "OPENAI_API_KEY",
			Temperature:    0,
		},
		Chunking: chunking.DefaultConfig(),
		Storage: StorageConfig{
			Path:      "docqa-data",
			Dimension: 1536,
		},
		Retrieval: RetrievalConfig{TopK: 5},
	}
}

// Load reads a config from the specified path. A missing file yields the
// defaults; a present but invalid file is an error, so a typo in a config
// never silently falls back.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Token resolves the API token from the configured environment variable.
func (c *Config) Token() string {
	if c.AI.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.AI.TokenEnv)
}

// Validate checks the whole configuration. Invariant violations surface
// here, at load time.
func (c *Config) Validate() error {
	if err := c.Chunking.Validate(); err != nil {
		return err
	}
	if c.Storage.Dimension <= 0 {
		return fmt.Errorf("storage dimension must be positive, got %d", c.Storage.Dimension)
	}
	if c.Storage.Path == "" && !c.Storage.InMemory {
		return errors.New("storage path required unless in_memory is set")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file for the fields
// that differ between deployments.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCQA_EMBEDDING_HOST"); v != "" {
		cfg.AI.EmbeddingHost = v
	}
	if v := os.Getenv("DOCQA_CHAT_HOST"); v != "" {
		cfg.AI.ChatHost = v
	}
	if v := os.Getenv("DOCQA_EMBEDDING_MODEL"); v != "" {
		cfg.AI.EmbeddingModel = v
	}
	if v := os.Getenv("DOCQA_CHAT_MODEL"); v != "" {
		cfg.AI.ChatModel = v
	}
	if v := os.Getenv("DOCQA_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DOCQA_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.Retrieval.TopK = k
		}
	}
}
