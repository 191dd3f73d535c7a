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

type chatOptions struct {
	Prompt      string
	System      string
	Stream      bool
	NoStream    bool
	Provider    string
	Temperature float64
	MaxTokens   int
}

func newChatCmd() *cobra.Command {
	opts := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat completion request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Prompt, "prompt", "", "prompt content (read stdin if empty)")
	cmd.Flags().StringVar(&opts.System, "system", "", "system context")
	cmd.Flags().BoolVar(&opts.Stream, "stream", false, "stream response")
	cmd.Flags().BoolVar(&opts.NoStream, "no-stream", false, "disable streaming response")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "backend to use (vertex or gemini)")
	cmd.Flags().Float64Var(&opts.Temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().IntVar(&opts.MaxTokens, "max-tokens", 0, "maximum output tokens")

	return cmd
}

func runChat(cmd *cobra.Command, opts *chatOptions) error {
	if opts.Stream && opts.NoStream {
		return errors.New("only one of --stream or --no-stream can be set")
	}
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

	prompt := buildPrompt(opts, content)

	if opts.Stream {
		return streamChat(cmd, provider, prompt)
	}

	resp, err := provider.Chat(context.Background(), prompt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
	return err
}

func streamChat(cmd *cobra.Command, provider llm.Provider, prompt *llm.ChatPrompt) error {
	done := make(chan error, 1)
	var printed int
	err := provider.ChatStreaming(context.Background(), prompt, llm.StreamCallbacks{
		OnPartial: func(text string) {
			if len(text) > printed {
				fmt.Fprint(cmd.OutOrStdout(), text[printed:])
				printed = len(text)
			}
		},
		OnSuccess: func(text string) {
			if len(text) > printed {
				fmt.Fprint(cmd.OutOrStdout(), text[printed:])
			}
			fmt.Fprintln(cmd.OutOrStdout())
			done <- nil
		},
		OnError: func(err error) {
			done <- err
		},
	})
	if err != nil {
		return err
	}
	return <-done
}

func buildPrompt(opts *chatOptions, content string) *llm.ChatPrompt {
	prompt := &llm.ChatPrompt{SystemContext: strings.TrimSpace(opts.System)}
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		prompt.Temperature = &temperature
	}
	if opts.MaxTokens > 0 {
		maxTokens := opts.MaxTokens
		prompt.MaxOutputTokens = &maxTokens
	}
	prompt.AddUserMessage(content)
	return prompt
}
