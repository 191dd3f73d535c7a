package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingTokenSource struct {
	token string
	err   error
	calls int
}

func (s *countingTokenSource) Token(ctx context.Context) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func TestEnsureFreshRefreshesWhenUnset(t *testing.T) {
	source := &countingTokenSource{token: "tok-1"}
	manager := NewCredentialManager(source)

	token, err := manager.EnsureFresh(context.Background())
	if err != nil {
		t.Fatalf("ensure fresh: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %s", token)
	}
	if source.calls != 1 {
		t.Fatalf("unexpected refresh count: %d", source.calls)
	}
}

func TestEnsureFreshCachesWithinTTL(t *testing.T) {
	source := &countingTokenSource{token: "tok-1"}
	manager := NewCredentialManager(source)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		if _, err := manager.EnsureFresh(context.Background()); err != nil {
			t.Fatalf("ensure fresh: %v", err)
		}
		now = now.Add(10 * time.Minute)
	}
	if source.calls != 1 {
		t.Fatalf("token refreshed %d times within TTL", source.calls)
	}
}

func TestEnsureFreshRefreshesWhenStale(t *testing.T) {
	source := &countingTokenSource{token: "tok-1"}
	manager := NewCredentialManager(source)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	if _, err := manager.EnsureFresh(context.Background()); err != nil {
		t.Fatalf("ensure fresh: %v", err)
	}
	now = now.Add(time.Hour)
	if _, err := manager.EnsureFresh(context.Background()); err != nil {
		t.Fatalf("ensure fresh: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("unexpected refresh count: %d", source.calls)
	}
}

func TestCommandTokenSourceTrimsOutput(t *testing.T) {
	source := &CommandTokenSource{
		Name: "gcloud",
		Args: []string{"auth", "print-access-token"},
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("  tok-abc\n"), nil
		},
	}

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("output not trimmed: %q", token)
	}
}

func TestCommandTokenSourceErrorOutput(t *testing.T) {
	source := &CommandTokenSource{
		Name: "gcloud",
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("ERROR: no active account\n"), nil
		},
	}

	_, err := source.Token(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Output != "ERROR: no active account" {
		t.Fatalf("unexpected output: %q", authErr.Output)
	}
	if authErr.Error() != "ERROR: no active account" {
		t.Fatalf("message is not the raw tool output: %q", authErr.Error())
	}
}
