package metricsTypes

import "time"

type IMetricsClient interface {
	Incr(name string, labels []MetricsLabel, value float64) error
	Gauge(name string, value float64, labels []MetricsLabel) error
	Timing(name string, value time.Duration, labels []MetricsLabel) error
	Flush()
}

type MetricsLabel struct {
	Name  string
	Value string
}

type MetricsType string

var (
	MetricsType_Incr   MetricsType = "incr"
	MetricsType_Gauge  MetricsType = "gauge"
	MetricsType_Timing MetricsType = "timing"
)

type MetricsTypeConfig struct {
	Name   string
	Labels []string
}

var (
	Metric_Incr_CalldataDecoded      = "calldata.decode.success"
	Metric_Incr_CalldataDecodeFailed = "calldata.decode.failed"
	Metric_Incr_ResourceBlobDecoded  = "resourceBlob.decode"

	Metric_Timing_CalldataDecodeDuration = "calldata.decode.duration"
)

var MetricTypes = map[MetricsType][]MetricsTypeConfig{
	MetricsType_Incr: {
		MetricsTypeConfig{
			Name:   Metric_Incr_CalldataDecoded,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name: Metric_Incr_CalldataDecodeFailed,
			Labels: []string{
				"reason",
			},
		},
		MetricsTypeConfig{
			Name: Metric_Incr_ResourceBlobDecoded,
			Labels: []string{
				"status",
			},
		},
	},
	MetricsType_Gauge: {},
	MetricsType_Timing: {
		MetricsTypeConfig{
			Name: Metric_Timing_CalldataDecodeDuration,
			Labels: []string{
				"hasError",
			},
		},
	},
}
