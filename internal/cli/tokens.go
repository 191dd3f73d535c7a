package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Stebalien/llm/internal/config"
	"github.com/Stebalien/llm/internal/llm"

	"github.com/spf13/cobra"
)

type tokensOptions struct {
	Prompt   string
	Provider string
}

func newTokensCmd() *cobra.Command {
	opts := &tokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Count the tokens a prompt would consume",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Prompt, "prompt", "", "prompt content (read stdin if empty)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "backend to use (vertex or gemini)")

	return cmd
}

func runTokens(cmd *cobra.Command, opts *tokensOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)
	provider, err := newProvider(cfg, opts.Provider, &logger)
	if err != nil {
		return err
	}

	content := strings.TrimSpace(opts.Prompt)
	if content == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		content = strings.TrimSpace(string(data))
	}
	if content == "" {
		return errors.New("prompt is required")
	}

	prompt := &llm.ChatPrompt{}
	prompt.AddUserMessage(content)

	count, err := provider.CountTokens(context.Background(), prompt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), count)
	return err
}
