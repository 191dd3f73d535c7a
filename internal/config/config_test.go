package config

import "testing"

func TestValidateProvider(t *testing.T) {
	cases := []struct {
		provider string
		ok       bool
	}{
		{"", true},
		{"vertex", true},
		{"gemini", true},
		{"openai", false},
		{"bogus", false},
	}
	for _, tc := range cases {
		cfg := Config{LLM: LLMConfig{Provider: tc.provider}}
		err := cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("provider %q: unexpected error: %v", tc.provider, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("provider %q: expected error", tc.provider)
		}
	}
}
