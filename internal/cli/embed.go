package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Stebalien/llm/internal/config"

	"github.com/spf13/cobra"
)

type embedOptions struct {
	Text     string
	Provider string
}

func newEmbedCmd() *cobra.Command {
	opts := &embedOptions{}
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Compute a text embedding",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "text to embed (read stdin if empty)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "backend to use (vertex or gemini)")

	return cmd
}

func runEmbed(cmd *cobra.Command, opts *embedOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)
	provider, err := newProvider(cfg, opts.Provider, &logger)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(opts.Text)
	if text == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read text: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return errors.New("text is required")
	}

	vector, err := provider.Embed(context.Background(), text)
	if err != nil {
		return err
	}
	values := make([]string, 0, len(vector))
	for _, value := range vector {
		values = append(values, strconv.FormatFloat(value, 'g', -1, 64))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dimensions: %d\n", len(vector))
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(values, " "))
	return nil
}
