package cmd

import (
	"os"
	"strings"

	"github.com/rm-labs/explorer-sidecar/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "explorer-sidecar",
	Short: "Decodes raw protocol adapter calldata and resource blobs into explorer entities",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(config.Debug, false, `"true" or "false"`)
	rootCmd.PersistentFlags().StringP(config.Chain, "c", "local", "The chain the decoded data originates from (mainnet, sepolia, local)")

	rootCmd.PersistentFlags().Bool(config.PrometheusEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().Int(config.PrometheusPort, 2112, `The port to expose prometheus metrics on`)

	// setup sub commands
	rootCmd.AddCommand(decodeCalldataCmd)
	rootCmd.AddCommand(decodeResourceCmd)
	rootCmd.AddCommand(versionCmd)

	decodeCalldataCmd.PersistentFlags().Int(actionIndexFlag, -1, "Print only the action at this index instead of the whole transaction")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

func initConfig(cmd *cobra.Command) {
	viper.SetEnvPrefix(config.ENV_PREFIX)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.AutomaticEnv()
}
