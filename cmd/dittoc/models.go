package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"ditto-go/internal/client"
	"ditto-go/internal/config"
	"ditto-go/internal/shared"
)

type modelsOptions struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models the gateway serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(cmd.Context(), modelsOptions{
				BaseURL: config.BaseURL(),
				Token:   config.VKToken(),
			}, cmd.OutOrStdout())
		},
	}
}

func runModels(ctx context.Context, opts modelsOptions, out io.Writer) error {
	if opts.Token == "" {
		return shared.ErrMissingToken
	}
	c := client.New(opts.BaseURL, opts.Token)
	if opts.HTTPClient != nil {
		c.HTTPClient = opts.HTTPClient
	}
	body, err := c.Models(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
