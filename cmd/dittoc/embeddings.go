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

type embeddingsOptions struct {
	BaseURL    string
	Token      string
	Model      string
	Input      []string
	HTTPClient *http.Client
	Log        *zap.SugaredLogger
}

func newEmbeddingsCmd() *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "embeddings <input>...",
		Short: "Request embeddings and print the raw response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbeddings(cmd.Context(), embeddingsOptions{
				BaseURL: config.BaseURL(),
				Token:   config.VKToken(),
				Model:   model,
				Input:   args,
				Log:     newLogger(),
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&model, "model", shared.DefaultEmbeddingsModel, "Model id to request.")
	return cmd
}

func runEmbeddings(ctx context.Context, opts embeddingsOptions, out io.Writer) error {
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
	log.Debugw("sending embeddings request", "model", opts.Model, "inputs", len(opts.Input))
	body, err := c.Embeddings(ctx, shared.EmbeddingsRequest{
		Model: opts.Model,
		Input: shared.InputList(opts.Input),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
