package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	LLM LLMConfig `mapstructure:"llm"`
	Log LogConfig `mapstructure:"log"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Vertex   VertexConfig `mapstructure:"vertex"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type VertexConfig struct {
	Project        string `mapstructure:"project"`
	Region         string `mapstructure:"region"`
	ChatModel      string `mapstructure:"chat_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

type GeminiConfig struct {
	Key            string `mapstructure:"key"`
	ChatModel      string `mapstructure:"chat_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.LLM.Provider == "" {
		return nil
	}
	switch c.LLM.Provider {
	case "vertex", "gemini":
		return nil
	default:
		return fmt.Errorf("invalid llm.provider: %s", c.LLM.Provider)
	}
}
