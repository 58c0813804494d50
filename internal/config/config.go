// Package config materializes the process configuration from command-line
// flags and environment variables. Flags are declared in cmd/, bound to
// viper keys, and read back here so that every component receives a single
// *Config rather than touching viper directly.
package config

import (
	"fmt"
	"regexp"

	"github.com/spf13/viper"
)

const ENV_PREFIX = "EXPLORER_SIDECAR"

// Viper keys for every supported flag. Flag names are kebab-case on the
// command line and snake_case in the environment.
const (
	Debug = "debug"
	Chain = "chain"

	PrometheusEnabled = "prometheus.enabled"
	PrometheusPort    = "prometheus.port"
)

type Network uint

const (
	Network_Sepolia Network = iota
	Network_Ethereum
	Network_Local
)

type ChainConfig struct {
	Name    string
	Network Network
}

// ParseChainConfig resolves a chain name into its network assignment.
func ParseChainConfig(name string) (ChainConfig, error) {
	if name == "" {
		return ChainConfig{}, fmt.Errorf("chain not found")
	}
	chains := [3]ChainConfig{
		{"local", Network_Local},
		{"sepolia", Network_Sepolia},
		{"mainnet", Network_Ethereum},
	}
	for _, c := range chains {
		if c.Name == name {
			return c, nil
		}
	}
	return ChainConfig{}, fmt.Errorf("unsupported chain %s", name)
}

func GetNetworkAsString(n Network) (string, error) {
	switch n {
	case Network_Ethereum:
		return "mainnet", nil
	case Network_Sepolia:
		return "sepolia", nil
	case Network_Local:
		return "local", nil
	default:
		return "", fmt.Errorf("unsupported network %d", n)
	}
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type Config struct {
	Debug            bool
	ChainConfig      ChainConfig
	PrometheusConfig PrometheusConfig
}

// NewConfig reads the bound viper keys into a Config. An unknown chain name
// falls back to "local" so that purely offline commands (the decoders) work
// without any flags.
func NewConfig() *Config {
	chain, err := ParseChainConfig(viper.GetString(normalizeFlagName(Chain)))
	if err != nil {
		chain, _ = ParseChainConfig("local")
	}
	return &Config{
		Debug:       viper.GetBool(normalizeFlagName(Debug)),
		ChainConfig: chain,
		PrometheusConfig: PrometheusConfig{
			Enabled: viper.GetBool(normalizeFlagName(PrometheusEnabled)),
			Port:    viper.GetInt(normalizeFlagName(PrometheusPort)),
		},
	}
}

var kebabChars = regexp.MustCompile(`[-]`)

// KebabToSnakeCase converts a kebab-case flag name to the snake_case key
// viper and the environment use.
func KebabToSnakeCase(s string) string {
	return kebabChars.ReplaceAllString(s, "_")
}

func normalizeFlagName(s string) string {
	return KebabToSnakeCase(s)
}
