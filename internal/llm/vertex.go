package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	vertexBackend               = "Vertex AI"
	vertexDefaultRegion         = "us-central1"
	vertexDefaultChatModel      = "gemini-pro"
	vertexDefaultEmbeddingModel = "textembedding-gecko"
)

type VertexConfig struct {
	Project        string
	Region         string
	ChatModel      string
	EmbeddingModel string

	// BaseURL overrides the regional aiplatform endpoint, for tests.
	BaseURL string
	// TokenSource overrides the gcloud token command.
	TokenSource TokenSource
	HTTPClient  *http.Client
	Logger      *zerolog.Logger
}

// VertexClient talks to the enterprise-gated Vertex AI API. Access tokens
// are short-lived and refreshed on demand through the credential manager
// before every operation.
type VertexClient struct {
	project        string
	region         string
	chatModel      string
	embeddingModel string
	baseURL        string
	creds          *CredentialManager
	requester      Requester
	logger         zerolog.Logger
}

func NewVertexClient(cfg VertexConfig) (*VertexClient, error) {
	project := strings.TrimSpace(cfg.Project)
	if project == "" {
		return nil, errors.New("vertex project is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = vertexDefaultRegion
	}
	chatModel := strings.TrimSpace(cfg.ChatModel)
	if chatModel == "" {
		chatModel = vertexDefaultChatModel
	}
	embeddingModel := strings.TrimSpace(cfg.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = vertexDefaultEmbeddingModel
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s-aiplatform.googleapis.com", region)
	}
	source := cfg.TokenSource
	if source == nil {
		source = GcloudTokenSource()
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &VertexClient{
		project:        project,
		region:         region,
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		baseURL:        baseURL,
		creds:          NewCredentialManager(source),
		requester:      newHTTPRequester(cfg.HTTPClient, logger),
		logger:         logger,
	}, nil
}

// authHeaders refreshes the credential if needed and builds the bearer
// header. A refresh failure aborts the call before any network request.
func (c *VertexClient) authHeaders(ctx context.Context) (map[string]string, error) {
	token, err := c.creds.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

func (c *VertexClient) modelURL(version, model, verb string) string {
	return fmt.Sprintf("%s/%s/projects/%s/locations/%s/publishers/google/models/%s:%s",
		c.baseURL, version, c.project, c.region, model, verb)
}

// Chat hits the streaming endpoint but reads the complete response array and
// decodes it in one pass.
func (c *VertexClient) Chat(ctx context.Context, prompt *ChatPrompt) (string, error) {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return "", err
	}
	return chatCall(ctx, c.requester, vertexBackend, c.modelURL("v1", c.chatModel, "streamGenerateContent"), headers, prompt)
}

func (c *VertexClient) ChatStreaming(ctx context.Context, prompt *ChatPrompt, cb StreamCallbacks) error {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return err
	}
	chatStreamingCall(ctx, c.requester, vertexBackend, c.modelURL("v1", c.chatModel, "streamGenerateContent"), headers, prompt, &c.logger, cb)
	return nil
}

func (c *VertexClient) Embed(ctx context.Context, text string) ([]float64, error) {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return nil, err
	}
	return c.embed(ctx, headers, text)
}

func (c *VertexClient) embed(ctx context.Context, headers map[string]string, text string) ([]float64, error) {
	body := vertexEmbeddingRequest{Instances: []vertexInstance{{Content: text}}}
	raw, status, err := c.requester.Do(ctx, c.modelURL("v1", c.embeddingModel, "predict"), headers, body)
	if err != nil {
		return nil, err
	}
	payload, err := checkResponse(vertexBackend, raw, status)
	if err != nil {
		return nil, err
	}
	var resp vertexEmbeddingResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return nil, errors.New("vertex embedding response has no predictions")
	}
	return resp.Predictions[0].Embeddings.Values, nil
}

// EmbedAsync refreshes the credential synchronously, then performs the
// request on a separate goroutine and returns immediately.
func (c *VertexClient) EmbedAsync(ctx context.Context, text string, cb EmbedCallbacks) error {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return err
	}
	embedAsyncCall(func() ([]float64, error) {
		return c.embed(ctx, headers, text)
	}, cb)
	return nil
}

// CountTokens uses the v1beta1 endpoint; the stable surface does not expose
// token counting.
func (c *VertexClient) CountTokens(ctx context.Context, prompt *ChatPrompt) (int, error) {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return 0, err
	}
	return countTokensCall(ctx, c.requester, vertexBackend, c.modelURL("v1beta1", c.chatModel, "countTokens"), headers, prompt)
}

type vertexEmbeddingRequest struct {
	Instances []vertexInstance `json:"instances"`
}

type vertexInstance struct {
	Content string `json:"content"`
}

type vertexEmbeddingResponse struct {
	Predictions []struct {
		Embeddings struct {
			Values []float64 `json:"values"`
		} `json:"embeddings"`
	} `json:"predictions"`
}
