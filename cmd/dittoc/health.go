package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"ditto-go/internal/client"
	"ditto-go/internal/config"
)

type healthOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check gateway health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd.Context(), healthOptions{
				BaseURL: config.BaseURL(),
			}, cmd.OutOrStdout())
		},
	}
}

// runHealth needs no credential; the health route is open.
func runHealth(ctx context.Context, opts healthOptions, out io.Writer) error {
	c := client.New(opts.BaseURL, "")
	if opts.HTTPClient != nil {
		c.HTTPClient = opts.HTTPClient
	}
	body, err := c.Health(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
