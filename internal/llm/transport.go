package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// transportCallbacks observe one non-blocking request: onPartial fires for
// each body chunk as it arrives, then onDone fires exactly once with the
// final status and full body, or with a transport error.
type transportCallbacks struct {
	onPartial func(chunk []byte)
	onDone    func(status int, body []byte, err error)
}

// Requester performs HTTP requests for the clients. The default
// implementation is replaceable for tests.
type Requester interface {
	Do(ctx context.Context, url string, headers map[string]string, body any) (json.RawMessage, int, error)
	Stream(ctx context.Context, url string, headers map[string]string, body any, cb transportCallbacks)
}

type httpRequester struct {
	client *http.Client
	logger zerolog.Logger
}

func newHTTPRequester(client *http.Client, logger zerolog.Logger) *httpRequester {
	if client == nil {
		client = &http.Client{}
	}
	return &httpRequester{client: client, logger: logger}
}

func (r *httpRequester) newRequest(ctx context.Context, url string, headers map[string]string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	return req, nil
}

func (r *httpRequester) Do(ctx context.Context, url string, headers map[string]string, body any) (json.RawMessage, int, error) {
	req, err := r.newRequest(ctx, url, headers, body)
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug().Str("url", url).Str("request_id", req.Header.Get("X-Request-Id")).Msg("http request")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	r.logger.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("http response")
	return raw, resp.StatusCode, nil
}

// Stream registers the callbacks and returns immediately; the body is read
// chunk by chunk on a separate goroutine. Partial chunks are only delivered
// for successful statuses; error bodies arrive whole via onDone.
func (r *httpRequester) Stream(ctx context.Context, url string, headers map[string]string, body any, cb transportCallbacks) {
	go func() {
		req, err := r.newRequest(ctx, url, headers, body)
		if err != nil {
			cb.onDone(0, nil, err)
			return
		}
		r.logger.Debug().Str("url", url).Str("request_id", req.Header.Get("X-Request-Id")).Msg("http stream request")
		resp, err := r.client.Do(req)
		if err != nil {
			cb.onDone(0, nil, fmt.Errorf("http request: %w", err))
			return
		}
		defer resp.Body.Close()

		ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
		var full bytes.Buffer
		chunk := make([]byte, 4096)
		for {
			n, err := resp.Body.Read(chunk)
			if n > 0 {
				full.Write(chunk[:n])
				if ok && cb.onPartial != nil {
					cb.onPartial(append([]byte(nil), chunk[:n]...))
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				cb.onDone(0, nil, fmt.Errorf("read stream: %w", err))
				return
			}
		}
		r.logger.Debug().Str("url", url).Int("status", resp.StatusCode).Int("bytes", full.Len()).Msg("http stream done")
		cb.onDone(resp.StatusCode, full.Bytes(), nil)
	}()
}

// checkResponse funnels a completed response through error classification
// and rejects non-2xx statuses that carried no structured error object.
func checkResponse(backend string, payload json.RawMessage, status int) (json.RawMessage, error) {
	out, err := classifyResponse(backend, payload)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s request failed with status %d", backend, status)
	}
	return out, nil
}
