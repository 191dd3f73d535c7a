package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// The call helpers below hold everything the two backends share: only URL
// construction, auth placement and the embedding wire shapes differ between
// Vertex AI and Gemini.

func chatCall(ctx context.Context, r Requester, backend, url string, headers map[string]string, prompt *ChatPrompt) (string, error) {
	raw, status, err := r.Do(ctx, url, headers, buildChatRequest(prompt))
	if err != nil {
		return "", err
	}
	payload, err := checkResponse(backend, raw, status)
	if err != nil {
		return "", err
	}
	text, err := decodeFinal(payload)
	if err != nil {
		return "", err
	}
	prompt.appendAssistant(text)
	return text, nil
}

// chatStreamingCall registers the stream with the transport and returns
// immediately. Each arriving chunk grows the buffer and re-runs the partial
// decode; the partial callback fires only when that yields more text than
// the previous pass. The terminal transport event runs the authoritative
// final decode, appends the assistant reply to the prompt and fires exactly
// one of OnSuccess or OnError.
func chatStreamingCall(ctx context.Context, r Requester, backend, url string, headers map[string]string, prompt *ChatPrompt, diag *zerolog.Logger, cb StreamCallbacks) {
	var buf streamBuffer
	var last string
	r.Stream(ctx, url, headers, buildChatRequest(prompt), transportCallbacks{
		onPartial: func(chunk []byte) {
			buf.Append(chunk)
			text, ok := tryDecodePartial(buf.Bytes(), diag)
			if !ok || text == last {
				return
			}
			last = text
			if cb.OnPartial != nil {
				cb.OnPartial(text)
			}
		},
		onDone: func(status int, body []byte, err error) {
			if err != nil {
				if cb.OnError != nil {
					cb.OnError(err)
				}
				return
			}
			payload, err := checkResponse(backend, body, status)
			if err != nil {
				if cb.OnError != nil {
					cb.OnError(err)
				}
				return
			}
			text, err := decodeFinal(payload)
			if err != nil {
				if cb.OnError != nil {
					cb.OnError(err)
				}
				return
			}
			prompt.appendAssistant(text)
			if cb.OnSuccess != nil {
				cb.OnSuccess(text)
			}
		},
	})
}

func countTokensCall(ctx context.Context, r Requester, backend, url string, headers map[string]string, prompt *ChatPrompt) (int, error) {
	raw, status, err := r.Do(ctx, url, headers, buildCountTokensRequest(prompt))
	if err != nil {
		return 0, err
	}
	payload, err := checkResponse(backend, raw, status)
	if err != nil {
		return 0, err
	}
	var resp countTokensResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return 0, fmt.Errorf("decode token count: %w", err)
	}
	return resp.TotalTokens, nil
}

func embedAsyncCall(embed func() ([]float64, error), cb EmbedCallbacks) {
	go func() {
		vector, err := embed()
		if err != nil {
			if cb.OnError != nil {
				cb.OnError(err)
			}
			return
		}
		if cb.OnSuccess != nil {
			cb.OnSuccess(vector)
		}
	}()
}

type countTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}
