package llm

import (
	"fmt"
	"strings"
)

const examplePrelude = "Examples of how you should respond follow."

type chatRequest struct {
	Contents         []wireContent     `json:"contents"`
	GenerationConfig *generationConfig `json:"generation_config,omitempty"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

// buildChatRequest maps a ChatPrompt onto the wire shape shared by both
// backends. The endpoint has no dedicated system-message slot, so the system
// context and examples are collapsed into a prelude that is folded into the
// content of a single-turn prompt. For multi-turn prompts the prelude is
// dropped entirely; that limitation is inherited from the upstream protocol
// handling and deliberately kept.
func buildChatRequest(prompt *ChatPrompt) chatRequest {
	prelude := collapseSystemPrelude(prompt)
	contents := make([]wireContent, 0, len(prompt.Interactions))
	for i, interaction := range prompt.Interactions {
		text := interaction.Content
		if i == 0 && len(prompt.Interactions) == 1 && prelude != "" {
			text = prelude + "\n" + text
		}
		contents = append(contents, wireContent{
			Role:  wireRole(interaction.Role),
			Parts: []wirePart{{Text: text}},
		})
	}
	req := chatRequest{Contents: contents}
	if prompt.Temperature != nil || prompt.MaxOutputTokens != nil {
		req.GenerationConfig = &generationConfig{
			Temperature:     prompt.Temperature,
			MaxOutputTokens: prompt.MaxOutputTokens,
		}
	}
	return req
}

// buildCountTokensRequest is the chat request minus generation parameters,
// which the token-count endpoint rejects.
func buildCountTokensRequest(prompt *ChatPrompt) chatRequest {
	req := buildChatRequest(prompt)
	req.GenerationConfig = nil
	return req
}

func collapseSystemPrelude(prompt *ChatPrompt) string {
	var parts []string
	if prompt.SystemContext != "" {
		parts = append(parts, prompt.SystemContext)
	}
	if len(prompt.Examples) > 0 {
		rendered := make([]string, 0, len(prompt.Examples))
		for _, example := range prompt.Examples {
			rendered = append(rendered, fmt.Sprintf("User:\n%s\nAssistant:\n%s", example.Input, example.Output))
		}
		parts = append(parts, examplePrelude+"\n"+strings.Join(rendered, "\n"))
	}
	return strings.Join(parts, "\n")
}

func wireRole(role Role) string {
	if role == RoleAssistant {
		return "model"
	}
	return string(role)
}
