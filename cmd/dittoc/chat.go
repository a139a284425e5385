package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ditto-go/internal/client"
	"ditto-go/internal/config"
	"ditto-go/internal/shared"
)

type chatOptions struct {
	BaseURL    string
	Token      string
	Model      string
	Content    string
	HTTPClient *http.Client
	Log        *zap.SugaredLogger
}

func newChatCmd() *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a chat completion and print the raw response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := shared.DefaultChatPrompt
			if len(args) == 1 {
				content = args[0]
			}
			return runChat(cmd.Context(), chatOptions{
				BaseURL: config.BaseURL(),
				Token:   config.VKToken(),
				Model:   model,
				Content: content,
				Log:     newLogger(),
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&model, "model", shared.DefaultChatModel, "Model id to request.")
	return cmd
}

// runChat requires a virtual key before anything touches the network.
func runChat(ctx context.Context, opts chatOptions, out io.Writer) error {
	if opts.Token == "" {
		return shared.ErrMissingToken
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	c := client.New(opts.BaseURL, opts.Token)
	if opts.HTTPClient != nil {
		c.HTTPClient = opts.HTTPClient
	}
	log.Debugw("sending chat completion", "base_url", c.BaseURL, "model", opts.Model)
	body, err := c.ChatCompletion(ctx, shared.ChatRequest{
		Model:    opts.Model,
		Stream:   false,
		Messages: []shared.ChatMessage{{Role: "user", Content: opts.Content}},
	})
	if err != nil {
		return err
	}
	log.Debugw("chat completion ok", "bytes", len(body))
	_, err = fmt.Fprintln(out, string(body))
	return err
}
