package cli

import (
	"fmt"
	"strings"

	"github.com/Stebalien/llm/internal/config"
	"github.com/Stebalien/llm/internal/llm"

	"github.com/rs/zerolog"
)

// newProvider builds the configured backend client. The flag override wins
// over the config file; gemini is the default when neither names a provider.
func newProvider(cfg config.Config, override string, logger *zerolog.Logger) (llm.Provider, error) {
	name := firstNonEmpty(override, cfg.LLM.Provider, "gemini")
	switch name {
	case "vertex":
		return llm.NewVertexClient(llm.VertexConfig{
			Project:        cfg.LLM.Vertex.Project,
			Region:         cfg.LLM.Vertex.Region,
			ChatModel:      cfg.LLM.Vertex.ChatModel,
			EmbeddingModel: cfg.LLM.Vertex.EmbeddingModel,
			Logger:         logger,
		})
	case "gemini":
		return llm.NewGeminiClient(llm.GeminiConfig{
			Key:            cfg.LLM.Gemini.Key,
			ChatModel:      cfg.LLM.Gemini.ChatModel,
			EmbeddingModel: cfg.LLM.Gemini.EmbeddingModel,
			Logger:         logger,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
