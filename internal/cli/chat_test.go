package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Stebalien/llm/internal/config"
)

func TestBuildPromptDefaults(t *testing.T) {
	prompt := buildPrompt(&chatOptions{}, "hello")
	if prompt.SystemContext != "" {
		t.Fatalf("unexpected system context: %q", prompt.SystemContext)
	}
	if prompt.Temperature != nil || prompt.MaxOutputTokens != nil {
		t.Fatal("generation parameters set without flags")
	}
	if len(prompt.Interactions) != 1 || prompt.Interactions[0].Content != "hello" {
		t.Fatalf("unexpected interactions: %+v", prompt.Interactions)
	}
}

func TestBuildPromptWithFlags(t *testing.T) {
	opts := &chatOptions{System: " be brief ", Temperature: 0.7, MaxTokens: 50}
	prompt := buildPrompt(opts, "hello")
	if prompt.SystemContext != "be brief" {
		t.Fatalf("unexpected system context: %q", prompt.SystemContext)
	}
	if prompt.Temperature == nil || *prompt.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", prompt.Temperature)
	}
	if prompt.MaxOutputTokens == nil || *prompt.MaxOutputTokens != 50 {
		t.Fatalf("unexpected max tokens: %v", prompt.MaxOutputTokens)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "x", "y"); got != "x" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := firstNonEmpty("", "  "); got != "" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	_, err := newProvider(config.Config{}, "mystery", nil)
	if err == nil || !strings.Contains(err.Error(), "unsupported provider") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewProviderVertexRequiresProject(t *testing.T) {
	if _, err := newProvider(config.Config{}, "vertex", nil); err == nil {
		t.Fatal("expected error for missing project")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatal("no version printed")
	}
}
