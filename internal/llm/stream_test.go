package llm

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const streamElement = `{"candidates":[{"content":{"parts":[{"text":"Hi"}]}}]}`

func TestTryDecodePartialExtractsCompleteElement(t *testing.T) {
	diag := zerolog.Nop()
	buf := []byte("[" + streamElement + "\n,")

	text, ok := tryDecodePartial(buf, &diag)
	if !ok {
		t.Fatal("expected a decode")
	}
	if text != "Hi" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestTryDecodePartialWithoutMarker(t *testing.T) {
	diag := zerolog.Nop()
	buf := []byte("[" + streamElement)

	if text, ok := tryDecodePartial(buf, &diag); ok {
		t.Fatalf("decoded without a safe cut point: %q", text)
	}
}

func TestTryDecodePartialUnparseablePrefix(t *testing.T) {
	diag := zerolog.Nop()
	buf := []byte("[{\"candidates\": not json\n,")

	if text, ok := tryDecodePartial(buf, &diag); ok {
		t.Fatalf("decoded invalid prefix: %q", text)
	}
}

func TestTryDecodePartialMonotonic(t *testing.T) {
	diag := zerolog.Nop()
	first := []byte("[" + streamElement + "\n,")

	text1, ok := tryDecodePartial(first, &diag)
	if !ok {
		t.Fatal("expected first decode")
	}

	second := append(append([]byte(nil), first...),
		[]byte(`{"candidates":[{"content":{"parts":[{"text":" there"}]}}]}`+"\n,")...)
	text2, ok := tryDecodePartial(second, &diag)
	if !ok {
		t.Fatal("expected second decode")
	}
	if !strings.HasPrefix(text2, text1) {
		t.Fatalf("grown buffer contradicts earlier decode: %q then %q", text1, text2)
	}
	if text2 != "Hi there" {
		t.Fatalf("unexpected text: %q", text2)
	}
}

func TestDecodeFinalConcatenatesArray(t *testing.T) {
	payload := []byte(`[` +
		`{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]},` +
		`{"candidates":[{"content":{"parts":[{"text":" world"}]}}]}` +
		`]`)

	text, err := decodeFinal(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "Hello world" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDecodeFinalSingleObject(t *testing.T) {
	text, err := decodeFinal([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello"},{"text":"ignored"}]}}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "Hello" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestDecodeFinalEmptyParts(t *testing.T) {
	text, err := decodeFinal([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestDecodeFinalInvalidPayload(t *testing.T) {
	if _, err := decodeFinal([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
