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

type adminOptions struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func adminOptionsFromConfig() adminOptions {
	return adminOptions{
		BaseURL: config.BaseURL(),
		Token:   config.AdminToken(),
	}
}

func (o adminOptions) newClient() (*client.AdminClient, error) {
	if o.Token == "" {
		return nil, shared.ErrMissingAdminToken
	}
	a := client.NewAdmin(o.BaseURL, o.Token)
	if o.HTTPClient != nil {
		a.HTTPClient = o.HTTPClient
	}
	return a, nil
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Gateway administration (requires DITTO_ADMIN_TOKEN)",
	}
	cmd.AddCommand(newAdminKeysCmd())
	cmd.AddCommand(newAdminCreateKeyCmd())
	cmd.AddCommand(newAdminDeleteKeyCmd())
	cmd.AddCommand(newAdminAuditCmd())
	cmd.AddCommand(newAdminUsageCmd())
	return cmd
}

func newAdminKeysCmd() *cobra.Command {
	var (
		includeTokens bool
		enabledFlag   string
		idPrefix      string
	)
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List virtual keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled *bool
			switch enabledFlag {
			case "":
			case "true":
				v := true
				enabled = &v
			case "false":
				v := false
				enabled = &v
			default:
				return fmt.Errorf("invalid --enabled value %q, want true or false", enabledFlag)
			}
			return runAdminKeys(cmd.Context(), adminOptionsFromConfig(), client.KeysQuery{
				IncludeTokens: includeTokens,
				Enabled:       enabled,
				IDPrefix:      idPrefix,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&includeTokens, "include-tokens", false, "Return key tokens instead of redacting them.")
	cmd.Flags().StringVar(&enabledFlag, "enabled", "", "Filter by enabled state (true or false).")
	cmd.Flags().StringVar(&idPrefix, "id-prefix", "", "Filter by key id prefix.")
	return cmd
}

func newAdminCreateKeyCmd() *cobra.Command {
	var (
		id       string
		token    string
		disabled bool
		rpm      uint32
		tpm      uint32
	)
	cmd := &cobra.Command{
		Use:   "create-key",
		Short: "Create or update a virtual key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminUpsertKey(cmd.Context(), adminOptionsFromConfig(), shared.VirtualKey{
				ID:      id,
				Token:   token,
				Enabled: !disabled,
				Limits:  shared.Limits{RPM: rpm, TPM: tpm},
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Key id (generated when empty).")
	cmd.Flags().StringVar(&token, "token", "", "Key token (generated when empty).")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create the key disabled.")
	cmd.Flags().Uint32Var(&rpm, "rpm", 0, "Requests per minute limit (0 means none).")
	cmd.Flags().Uint32Var(&tpm, "tpm", 0, "Tokens per minute limit (0 means none).")
	return cmd
}

func newAdminDeleteKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-key <id>",
		Short: "Delete a virtual key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminDeleteKey(cmd.Context(), adminOptionsFromConfig(), args[0], cmd.OutOrStdout())
		},
	}
}

func newAdminAuditCmd() *cobra.Command {
	var (
		limit   int
		sinceMS int64
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminAudit(cmd.Context(), adminOptionsFromConfig(), client.AuditQuery{
				Limit:   limit,
				SinceMS: sinceMS,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return (gateway default when 0).")
	cmd.Flags().Int64Var(&sinceMS, "since-ms", 0, "Only records at or after this epoch-millis timestamp.")
	return cmd
}

func newAdminUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show per-key usage counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminUsage(cmd.Context(), adminOptionsFromConfig(), cmd.OutOrStdout())
		},
	}
}

func runAdminKeys(ctx context.Context, opts adminOptions, q client.KeysQuery, out io.Writer) error {
	a, err := opts.newClient()
	if err != nil {
		return err
	}
	body, err := a.Keys(ctx, q)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

func runAdminUpsertKey(ctx context.Context, opts adminOptions, key shared.VirtualKey, out io.Writer) error {
	a, err := opts.newClient()
	if err != nil {
		return err
	}
	body, err := a.UpsertKey(ctx, key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

func runAdminDeleteKey(ctx context.Context, opts adminOptions, id string, out io.Writer) error {
	a, err := opts.newClient()
	if err != nil {
		return err
	}
	body, err := a.DeleteKey(ctx, id)
	if err != nil {
		return err
	}
	// Deletes answer 204 with no body; print nothing rather than a bare
	// newline.
	if len(body) > 0 {
		_, err = fmt.Fprintln(out, string(body))
	}
	return err
}

func runAdminAudit(ctx context.Context, opts adminOptions, q client.AuditQuery, out io.Writer) error {
	a, err := opts.newClient()
	if err != nil {
		return err
	}
	body, err := a.Audit(ctx, q)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

func runAdminUsage(ctx context.Context, opts adminOptions, out io.Writer) error {
	a, err := opts.newClient()
	if err != nil {
		return err
	}
	body, err := a.Usage(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
