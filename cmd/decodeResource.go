package cmd

import (
	"fmt"

	"github.com/rm-labs/explorer-sidecar/internal/config"
	"github.com/rm-labs/explorer-sidecar/internal/logger"
	"github.com/rm-labs/explorer-sidecar/pkg/metrics/metricsTypes"
	"github.com/rm-labs/explorer-sidecar/pkg/metrics/prometheus"
	"github.com/rm-labs/explorer-sidecar/pkg/resourceDecoder"
	"github.com/spf13/cobra"
)

var decodeResourceCmd = &cobra.Command{
	Use:   "decode-resource [blob]",
	Short: "Decode a resource blob",
	Long:  `Decode an opaque resource blob into a resource, or classify it when it is not a resource encoding. Always prints a result envelope and exits zero; inspect the status field for the outcome.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		blob, err := readHexInput(args)
		if err != nil {
			return err
		}

		rd := resourceDecoder.NewResourceDecoder(l)
		decoded := rd.SafeDecodeResourceBlob(blob)

		metricsClient.Incr(metricsTypes.Metric_Incr_ResourceBlobDecoded, []metricsTypes.MetricsLabel{ //nolint:errcheck
			{Name: "status", Value: string(decoded.Status)},
		}, 1)

		return printJson(decoded)
	},
}
