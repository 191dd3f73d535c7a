package llm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// credentialTTL is how long a bearer token issued by the token command stays
// usable before a call refreshes it.
const credentialTTL = time.Hour

// Credential is a bearer token plus the time it was issued.
type Credential struct {
	Value    string
	IssuedAt time.Time
}

func (c Credential) stale(now time.Time, ttl time.Duration) bool {
	return c.Value == "" || now.Sub(c.IssuedAt) >= ttl
}

// TokenSource issues a fresh bearer token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// CommandTokenSource issues tokens by running an external command and
// trimming its stdout. The issuing tool prints "ERROR" somewhere in its
// output on failure, so that marker is treated as a fatal AuthError.
type CommandTokenSource struct {
	Name string
	Args []string

	// run is swappable so tests can avoid spawning processes.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// GcloudTokenSource issues tokens via `gcloud auth print-access-token`.
func GcloudTokenSource() *CommandTokenSource {
	return &CommandTokenSource{Name: "gcloud", Args: []string{"auth", "print-access-token"}}
}

func (s *CommandTokenSource) Token(ctx context.Context) (string, error) {
	run := s.run
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		}
	}
	output, err := run(ctx, s.Name, s.Args...)
	if err != nil {
		return "", fmt.Errorf("run token command: %w", err)
	}
	token := strings.TrimSpace(string(output))
	if strings.Contains(token, "ERROR") {
		return "", &AuthError{Output: token}
	}
	if token == "" {
		return "", errors.New("token command produced no output")
	}
	return token, nil
}

// CredentialManager caches a bearer token and refreshes it on demand. It is
// not safe for concurrent use; callers serialize calls against one provider.
type CredentialManager struct {
	source TokenSource
	ttl    time.Duration
	now    func() time.Time
	cred   Credential
}

func NewCredentialManager(source TokenSource) *CredentialManager {
	return &CredentialManager{
		source: source,
		ttl:    credentialTTL,
		now:    time.Now,
	}
}

// EnsureFresh returns a usable token, refreshing at most once when the
// cached one is absent or older than the TTL. Refresh is synchronous: it
// gates every operation and happens at most once per hour per provider.
func (m *CredentialManager) EnsureFresh(ctx context.Context) (string, error) {
	now := m.now()
	if !m.cred.stale(now, m.ttl) {
		return m.cred.Value, nil
	}
	token, err := m.source.Token(ctx)
	if err != nil {
		return "", err
	}
	m.cred = Credential{Value: token, IssuedAt: now}
	return token, nil
}
