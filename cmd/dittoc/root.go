package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"ditto-go/internal/config"
	"ditto-go/internal/shared"
)

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. A bare invocation runs the default
// chat completion: resolve DITTO_BASE_URL and DITTO_VK_TOKEN, send one
// non-streaming request, and print the raw response body.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dittoc",
		Short:         "Client for a ditto LLM gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), chatOptions{
				BaseURL: config.BaseURL(),
				Token:   config.VKToken(),
				Model:   shared.DefaultChatModel,
				Content: shared.DefaultChatPrompt,
				Log:     newLogger(),
			}, cmd.OutOrStdout())
		},
	}

	cobra.OnInitialize(config.Init)

	cmd.PersistentFlags().String("base-url", "", "Gateway base URL (defaults to "+shared.DefaultBaseURL+").")
	cmd.PersistentFlags().String("vk-token", "", "Virtual key token.")
	cmd.PersistentFlags().String("admin-token", "", "Admin token for admin subcommands.")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")

	_ = viper.BindPFlag(config.KeyBaseURL, cmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag(config.KeyVKToken, cmd.PersistentFlags().Lookup("vk-token"))
	_ = viper.BindPFlag(config.KeyAdminToken, cmd.PersistentFlags().Lookup("admin-token"))
	_ = viper.BindPFlag(config.KeyDebug, cmd.PersistentFlags().Lookup("debug"))

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newEmbeddingsCmd())
	cmd.AddCommand(newMessagesCmd())
	cmd.AddCommand(newCountTokensCmd())
	cmd.AddCommand(newModelsCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// newLogger is silent unless --debug is set so command output stays
// exactly the response body.
func newLogger() *zap.SugaredLogger {
	if !config.Debug() {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %s", err))
	}
	return logger.Sugar()
}
