package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rm-labs/explorer-sidecar/internal/config"
	"github.com/rm-labs/explorer-sidecar/internal/logger"
	"github.com/rm-labs/explorer-sidecar/pkg/calldataDecoder"
	"github.com/rm-labs/explorer-sidecar/pkg/metrics/metricsTypes"
	"github.com/rm-labs/explorer-sidecar/pkg/metrics/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const actionIndexFlag = "action-index"

var decodeCalldataCmd = &cobra.Command{
	Use:   "decode-calldata [calldata]",
	Short: "Decode execute calldata into a transaction",
	Long:  `Decode the ABI-encoded calldata of the execute entry point into its transaction structure and print it as JSON. Calldata is taken from the first argument, or from stdin when no argument is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		initDecodeCalldataCmd(cmd)
		cfg := config.NewConfig()

		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		metricsClient, err := prometheus.NewPrometheusMetricsClient(&prometheus.PrometheusMetricsConfig{
			Metrics: metricsTypes.MetricTypes,
		}, l)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics client: %w", err)
		}

		calldata, err := readHexInput(args)
		if err != nil {
			return err
		}

		cd := calldataDecoder.NewCalldataDecoder(l)

		if !calldataDecoder.IsExecuteCalldata(calldata) {
			l.Sugar().Debugw("Input does not carry the execute selector",
				zap.String("selector", calldataDecoder.ExecuteSelector),
			)
		}

		tx, err := cd.DecodeExecuteCalldata(calldata)
		if err != nil {
			metricsClient.Incr(metricsTypes.Metric_Incr_CalldataDecodeFailed, []metricsTypes.MetricsLabel{ //nolint:errcheck
				{Name: "reason", Value: decodeFailureReason(err)},
			}, 1)
			return err
		}
		metricsClient.Incr(metricsTypes.Metric_Incr_CalldataDecoded, nil, 1) //nolint:errcheck

		actionIndex := viper.GetInt(config.KebabToSnakeCase(actionIndexFlag))
		if actionIndex >= 0 {
			action := cd.GetActionFromCalldata(calldata, actionIndex)
			if action == nil {
				return fmt.Errorf("no action at index %d (transaction has %d)", actionIndex, len(tx.Actions))
			}
			return printJson(action)
		}

		return printJson(tx)
	},
}

// initDecodeCalldataCmd binds this command's own flags to viper; the root
// init only covers the persistent flags.
func initDecodeCalldataCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

// readHexInput takes the hex payload from the first positional argument or,
// when none is given, from stdin (so decoded blobs can be piped in).
func readHexInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	stdinInfo, err := os.Stdin.Stat()
	if err != nil || (stdinInfo.Mode()&os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("no input: pass a hex string argument or pipe it on stdin")
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func decodeFailureReason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Empty calldata"):
		return "empty"
	case strings.Contains(msg, "Unknown function selector"):
		return "unknown_selector"
	default:
		return "structural"
	}
}

func printJson(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
