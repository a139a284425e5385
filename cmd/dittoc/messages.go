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

type messagesOptions struct {
	BaseURL    string
	Token      string
	Model      string
	MaxTokens  int
	System     string
	Content    string
	HTTPClient *http.Client
	Log        *zap.SugaredLogger
}

func newMessagesCmd() *cobra.Command {
	var (
		model     string
		maxTokens int
		system    string
	)
	cmd := &cobra.Command{
		Use:   "messages [message]",
		Short: "Send an anthropic-style messages request and print the raw response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := shared.DefaultChatPrompt
			if len(args) == 1 {
				content = args[0]
			}
			return runMessages(cmd.Context(), messagesOptions{
				BaseURL:   config.BaseURL(),
				Token:     config.VKToken(),
				Model:     model,
				MaxTokens: maxTokens,
				System:    system,
				Content:   content,
				Log:       newLogger(),
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&model, "model", shared.DefaultMessagesModel, "Model id to request.")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", shared.DefaultMaxTokens, "Maximum completion tokens.")
	cmd.Flags().StringVar(&system, "system", "", "Optional system prompt.")
	return cmd
}

func newCountTokensCmd() *cobra.Command {
	var (
		model  string
		system string
	)
	cmd := &cobra.Command{
		Use:   "count-tokens [message]",
		Short: "Estimate request tokens without running the request",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := shared.DefaultChatPrompt
			if len(args) == 1 {
				content = args[0]
			}
			return runCountTokens(cmd.Context(), messagesOptions{
				BaseURL: config.BaseURL(),
				Token:   config.VKToken(),
				Model:   model,
				System:  system,
				Content: content,
				Log:     newLogger(),
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&model, "model", shared.DefaultMessagesModel, "Model id to request.")
	cmd.Flags().StringVar(&system, "system", "", "Optional system prompt.")
	return cmd
}

func (o messagesOptions) request() shared.MessagesRequest {
	return shared.MessagesRequest{
		Model:     o.Model,
		MaxTokens: o.MaxTokens,
		System:    o.System,
		Messages:  []shared.ChatMessage{{Role: "user", Content: o.Content}},
	}
}

func runMessages(ctx context.Context, opts messagesOptions, out io.Writer) error {
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
	log.Debugw("sending messages request", "model", opts.Model, "max_tokens", opts.MaxTokens)
	body, err := c.Messages(ctx, opts.request())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

func runCountTokens(ctx context.Context, opts messagesOptions, out io.Writer) error {
	if opts.Token == "" {
		return shared.ErrMissingToken
	}
	c := client.New(opts.BaseURL, opts.Token)
	if opts.HTTPClient != nil {
		c.HTTPClient = opts.HTTPClient
	}
	body, err := c.CountTokens(ctx, opts.request())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
