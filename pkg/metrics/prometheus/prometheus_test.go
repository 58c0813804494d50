package prometheus

import (
	"testing"
	"time"

	"github.com/rm-labs/explorer-sidecar/internal/logger"
	"github.com/rm-labs/explorer-sidecar/pkg/metrics/metricsTypes"
	"github.com/stretchr/testify/assert"
)

func Test_UnexpectedLabelsParsing(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	assert.Nil(t, err)

	pmc, err := NewPrometheusMetricsClient(&PrometheusMetricsConfig{
		Metrics: metricsTypes.MetricTypes,
	}, l)
	assert.Nil(t, err)

	t.Run("Should return no error for all labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, metricsTypes.Metric_Incr_ResourceBlobDecoded, []metricsTypes.MetricsLabel{
			{Name: "status", Value: "success"},
		})
		assert.Nil(t, err)
	})
	t.Run("Should return no error for a subset of labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Timing, metricsTypes.Metric_Timing_CalldataDecodeDuration, []metricsTypes.MetricsLabel{
			{Name: "hasError", Value: "false"},
		})
		assert.Nil(t, err)
	})
	t.Run("Should return an error for no labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, metricsTypes.Metric_Incr_ResourceBlobDecoded, []metricsTypes.MetricsLabel{})
		assert.NotNil(t, err)
	})
	t.Run("Should return an error for unexpected labels", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, metricsTypes.Metric_Incr_ResourceBlobDecoded, []metricsTypes.MetricsLabel{
			{Name: "status", Value: "success"},
			{Name: "unexpectedLabel", Value: "unexpectedValue"},
		})
		assert.NotNil(t, err)
	})
	t.Run("Should return an error for an unconfigured metric", func(t *testing.T) {
		err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, "no.such.metric", nil)
		assert.NotNil(t, err)
	})
}

func Test_EmitMetrics(t *testing.T) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	assert.Nil(t, err)

	pmc, err := NewPrometheusMetricsClient(&PrometheusMetricsConfig{
		Metrics: metricsTypes.MetricTypes,
	}, l)
	assert.Nil(t, err)

	t.Run("Should increment a label-free counter", func(t *testing.T) {
		err := pmc.Incr(metricsTypes.Metric_Incr_CalldataDecoded, nil, 1)
		assert.Nil(t, err)
	})
	t.Run("Should increment a labeled counter", func(t *testing.T) {
		err := pmc.Incr(metricsTypes.Metric_Incr_CalldataDecodeFailed, []metricsTypes.MetricsLabel{
			{Name: "reason", Value: "unknown_selector"},
		}, 1)
		assert.Nil(t, err)
	})
	t.Run("Should reject an undeclared label on emit", func(t *testing.T) {
		err := pmc.Incr(metricsTypes.Metric_Incr_CalldataDecodeFailed, []metricsTypes.MetricsLabel{
			{Name: "nope", Value: "x"},
		}, 1)
		assert.NotNil(t, err)
	})
	t.Run("Should observe a timing", func(t *testing.T) {
		err := pmc.Timing(metricsTypes.Metric_Timing_CalldataDecodeDuration, 25*time.Millisecond, []metricsTypes.MetricsLabel{
			{Name: "hasError", Value: "false"},
		})
		assert.Nil(t, err)
	})
	t.Run("Should serve the registry", func(t *testing.T) {
		assert.NotNil(t, pmc.Handler())
	})
}
