package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AuthError reports a failed credential refresh. The message is the raw
// output of the token-issuing command.
type AuthError struct {
	Output string
}

func (e *AuthError) Error() string {
	return e.Output
}

// APIError is a structured error returned by a backend.
type APIError struct {
	Backend string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Problem calling %s: status: %s message: %s", e.Backend, e.Code, e.Message)
}

type wireError struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
}

func (e wireError) code() string {
	if len(e.Code) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Code, &s); err == nil {
		return s
	}
	var n int
	if err := json.Unmarshal(e.Code, &n); err == nil {
		return strconv.Itoa(n)
	}
	return string(e.Code)
}

// classifyResponse inspects a completed response for an error marker: an
// "error" key on the object itself, or on the first element when the response
// is an array. It returns the payload unchanged when no marker is present.
// Every backend response passes through here before extraction.
func classifyResponse(backend string, payload json.RawMessage) (json.RawMessage, error) {
	var batch []struct {
		Error *wireError `json:"error"`
	}
	if err := json.Unmarshal(payload, &batch); err == nil {
		if len(batch) > 0 && batch[0].Error != nil {
			return nil, &APIError{
				Backend: backend,
				Code:    batch[0].Error.code(),
				Message: batch[0].Error.Message,
			}
		}
		return payload, nil
	}
	var single struct {
		Error *wireError `json:"error"`
	}
	if err := json.Unmarshal(payload, &single); err == nil && single.Error != nil {
		return nil, &APIError{
			Backend: backend,
			Code:    single.Error.code(),
			Message: single.Error.Message,
		}
	}
	return payload, nil
}
