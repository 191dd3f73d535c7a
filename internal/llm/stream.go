package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// safeCutMarker separates two complete top-level elements in the streamed
// JSON array. The upstream pretty-printer emits it only between elements,
// never inside a string value or nested structure; if that formatting ever
// changes, partial decoding silently stops yielding text until stream end.
const safeCutMarker = "\n,"

// streamBuffer accumulates raw bytes for one streaming call. It is only ever
// appended to, so text decoded from an earlier state stays a prefix of text
// decoded from any later state.
type streamBuffer struct {
	data []byte
}

func (b *streamBuffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

func (b *streamBuffer) Bytes() []byte {
	return b.data
}

// tryDecodePartial extracts the text of every complete array element in a
// growing prefix of a streamed JSON array. It scans backward for the last
// safe cut marker, closes the truncated array and parses it. A buffer with
// no marker, or one that fails to parse, yields no text; parse failures are
// logged to the diagnostic sink and retried on the next chunk, never
// surfaced to the caller. The heuristic can skip a trailing fragment but
// never emits invalid or partial text.
func tryDecodePartial(buf []byte, diag *zerolog.Logger) (string, bool) {
	cut := bytes.LastIndex(buf, []byte(safeCutMarker))
	if cut < 0 {
		return "", false
	}
	candidate := make([]byte, 0, cut+1)
	candidate = append(candidate, buf[:cut]...)
	candidate = append(candidate, ']')

	var batch []chatResponse
	if err := json.Unmarshal(candidate, &batch); err != nil {
		diag.Debug().
			Err(err).
			Bytes("buffer", buf).
			Msg("partial decode miss")
		return "", false
	}
	var text strings.Builder
	for _, resp := range batch {
		text.WriteString(candidateText(resp))
	}
	return text.String(), true
}

// decodeFinal extracts the response text from a complete, well-formed
// payload: either a JSON array of response objects (their texts are
// concatenated in order) or a single response object.
func decodeFinal(payload json.RawMessage) (string, error) {
	var batch []chatResponse
	if err := json.Unmarshal(payload, &batch); err == nil {
		var text strings.Builder
		for _, resp := range batch {
			text.WriteString(candidateText(resp))
		}
		return text.String(), nil
	}
	var single chatResponse
	if err := json.Unmarshal(payload, &single); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	return candidateText(single), nil
}

// candidateText returns the first part of the first candidate's content, or
// empty text when the response carries no parts.
func candidateText(resp chatResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

type chatResponse struct {
	Candidates []wireCandidate `json:"candidates"`
}

type wireCandidate struct {
	Content wireContent `json:"content"`
}
