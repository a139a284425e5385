// Package config resolves client configuration from flags and DITTO_*
// environment variables through viper.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"ditto-go/internal/shared"
)

const (
	EnvPrefix = "DITTO"

	KeyBaseURL    = "base_url"
	KeyVKToken    = "vk_token"
	KeyAdminToken = "admin_token"
	KeyDebug      = "debug"
)

// Init binds viper to the environment. Resolution order is flag, then
// DITTO_* variable, then default. An env var set to the empty string
// counts as unset and falls through.
func Init() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyBaseURL, shared.DefaultBaseURL)
}

func BaseURL() string {
	return shared.NormalizeBaseURL(viper.GetString(KeyBaseURL))
}

func VKToken() string {
	return viper.GetString(KeyVKToken)
}

func AdminToken() string {
	return viper.GetString(KeyAdminToken)
}

func Debug() bool {
	return viper.GetBool(KeyDebug)
}
