package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

const (
	geminiBackend               = "Gemini"
	geminiDefaultBaseURL        = "https://generativelanguage.googleapis.com"
	geminiDefaultChatModel      = "gemini-pro"
	geminiDefaultEmbeddingModel = "embedding-001"
)

type GeminiConfig struct {
	Key            string
	ChatModel      string
	EmbeddingModel string

	// BaseURL overrides the generativelanguage endpoint, for tests.
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// GeminiClient talks to the direct API-key variant. The key travels as a URL
// query parameter, never as an auth header. Prompt mapping, streaming decode
// and error classification are the shared package helpers; only the URLs and
// the embedding shape are Gemini's own.
type GeminiClient struct {
	key            string
	chatModel      string
	embeddingModel string
	baseURL        string
	requester      Requester
	logger         zerolog.Logger
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		return nil, errors.New("gemini api key is required")
	}
	chatModel := strings.TrimSpace(cfg.ChatModel)
	if chatModel == "" {
		chatModel = geminiDefaultChatModel
	}
	embeddingModel := strings.TrimSpace(cfg.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = geminiDefaultEmbeddingModel
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &GeminiClient{
		key:            key,
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		baseURL:        baseURL,
		requester:      newHTTPRequester(cfg.HTTPClient, logger),
		logger:         logger,
	}, nil
}

func (c *GeminiClient) modelURL(model, verb string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:%s?key=%s", c.baseURL, model, verb, url.QueryEscape(c.key))
}

func (c *GeminiClient) Chat(ctx context.Context, prompt *ChatPrompt) (string, error) {
	return chatCall(ctx, c.requester, geminiBackend, c.modelURL(c.chatModel, "generateContent"), nil, prompt)
}

func (c *GeminiClient) ChatStreaming(ctx context.Context, prompt *ChatPrompt, cb StreamCallbacks) error {
	chatStreamingCall(ctx, c.requester, geminiBackend, c.modelURL(c.chatModel, "streamGenerateContent"), nil, prompt, &c.logger, cb)
	return nil
}

func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float64, error) {
	body := geminiEmbeddingRequest{
		Model:   "models/" + c.embeddingModel,
		Content: wireContent{Parts: []wirePart{{Text: text}}},
	}
	raw, status, err := c.requester.Do(ctx, c.modelURL(c.embeddingModel, "embedContent"), nil, body)
	if err != nil {
		return nil, err
	}
	payload, err := checkResponse(geminiBackend, raw, status)
	if err != nil {
		return nil, err
	}
	var resp geminiEmbeddingResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	return resp.Embedding.Values, nil
}

func (c *GeminiClient) EmbedAsync(ctx context.Context, text string, cb EmbedCallbacks) error {
	embedAsyncCall(func() ([]float64, error) {
		return c.Embed(ctx, text)
	}, cb)
	return nil
}

func (c *GeminiClient) CountTokens(ctx context.Context, prompt *ChatPrompt) (int, error) {
	return countTokensCall(ctx, c.requester, geminiBackend, c.modelURL(c.chatModel, "countTokens"), nil, prompt)
}

type geminiEmbeddingRequest struct {
	Model   string      `json:"model"`
	Content wireContent `json:"content"`
}

type geminiEmbeddingResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}
