// Package prometheus implements metricsTypes.IMetricsClient on a dedicated
// prometheus registry. Metrics must be declared up front in the
// PrometheusMetricsConfig; emitting an undeclared metric or an undeclared
// label is an error rather than a silent new time series.
package prometheus

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rm-labs/explorer-sidecar/pkg/metrics/metricsTypes"
	"go.uber.org/zap"
)

type PrometheusMetricsConfig struct {
	Metrics map[metricsTypes.MetricsType][]metricsTypes.MetricsTypeConfig
}

type PrometheusMetricsClient struct {
	registry *prometheus.Registry
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
	timings  map[string]*prometheus.HistogramVec
	config   *PrometheusMetricsConfig
	logger   *zap.Logger
}

func NewPrometheusMetricsClient(cfg *PrometheusMetricsConfig, l *zap.Logger) (*PrometheusMetricsClient, error) {
	client := &PrometheusMetricsClient{
		registry: prometheus.NewRegistry(),
		counters: make(map[string]*prometheus.CounterVec),
		gauges:   make(map[string]*prometheus.GaugeVec),
		timings:  make(map[string]*prometheus.HistogramVec),
		config:   cfg,
		logger:   l,
	}

	for _, metric := range cfg.Metrics[metricsTypes.MetricsType_Incr] {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: sanitizeMetricName(metric.Name),
		}, metric.Labels)
		if err := client.registry.Register(vec); err != nil {
			return nil, err
		}
		client.counters[metric.Name] = vec
	}
	for _, metric := range cfg.Metrics[metricsTypes.MetricsType_Gauge] {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: sanitizeMetricName(metric.Name),
		}, metric.Labels)
		if err := client.registry.Register(vec); err != nil {
			return nil, err
		}
		client.gauges[metric.Name] = vec
	}
	for _, metric := range cfg.Metrics[metricsTypes.MetricsType_Timing] {
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    sanitizeMetricName(metric.Name),
			Buckets: prometheus.DefBuckets,
		}, metric.Labels)
		if err := client.registry.Register(vec); err != nil {
			return nil, err
		}
		client.timings[metric.Name] = vec
	}
	return client, nil
}

func (pmc *PrometheusMetricsClient) Incr(name string, labels []metricsTypes.MetricsLabel, value float64) error {
	if err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Incr, name, labels); err != nil {
		return err
	}
	vec, ok := pmc.counters[name]
	if !ok {
		return fmt.Errorf("unknown counter metric %s", name)
	}
	if value <= 0 {
		value = 1
	}
	vec.With(pmc.labelValues(metricsTypes.MetricsType_Incr, name, labels)).Add(value)
	return nil
}

func (pmc *PrometheusMetricsClient) Gauge(name string, value float64, labels []metricsTypes.MetricsLabel) error {
	if err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Gauge, name, labels); err != nil {
		return err
	}
	vec, ok := pmc.gauges[name]
	if !ok {
		return fmt.Errorf("unknown gauge metric %s", name)
	}
	vec.With(pmc.labelValues(metricsTypes.MetricsType_Gauge, name, labels)).Set(value)
	return nil
}

func (pmc *PrometheusMetricsClient) Timing(name string, value time.Duration, labels []metricsTypes.MetricsLabel) error {
	if err := pmc.hasUnexpectedLabels(metricsTypes.MetricsType_Timing, name, labels); err != nil {
		return err
	}
	vec, ok := pmc.timings[name]
	if !ok {
		return fmt.Errorf("unknown timing metric %s", name)
	}
	vec.With(pmc.labelValues(metricsTypes.MetricsType_Timing, name, labels)).Observe(value.Seconds())
	return nil
}

// Flush is a no-op: prometheus is pull-based.
func (pmc *PrometheusMetricsClient) Flush() {}

// Handler exposes the registry for the /metrics endpoint.
func (pmc *PrometheusMetricsClient) Handler() http.Handler {
	return promhttp.HandlerFor(pmc.registry, promhttp.HandlerOpts{})
}

func (pmc *PrometheusMetricsClient) findMetricConfig(metricsType metricsTypes.MetricsType, name string) *metricsTypes.MetricsTypeConfig {
	for _, metric := range pmc.config.Metrics[metricsType] {
		if metric.Name == name {
			return &metric
		}
	}
	return nil
}

// hasUnexpectedLabels verifies that every provided label is declared for
// the metric and that a labeled metric is not emitted without labels.
// Subsets of the declared labels are fine; missing labels are reported as
// empty strings.
func (pmc *PrometheusMetricsClient) hasUnexpectedLabels(metricsType metricsTypes.MetricsType, name string, labels []metricsTypes.MetricsLabel) error {
	metric := pmc.findMetricConfig(metricsType, name)
	if metric == nil {
		return fmt.Errorf("metric %s of type %s is not configured", name, metricsType)
	}
	if len(labels) == 0 && len(metric.Labels) > 0 {
		return fmt.Errorf("metric %s expects labels %v, got none", name, metric.Labels)
	}
	for _, label := range labels {
		found := false
		for _, expected := range metric.Labels {
			if label.Name == expected {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("metric %s does not declare label %s", name, label.Name)
		}
	}
	return nil
}

func (pmc *PrometheusMetricsClient) labelValues(metricsType metricsTypes.MetricsType, name string, labels []metricsTypes.MetricsLabel) prometheus.Labels {
	metric := pmc.findMetricConfig(metricsType, name)
	values := prometheus.Labels{}
	if metric == nil {
		return values
	}
	for _, expected := range metric.Labels {
		values[expected] = ""
		for _, label := range labels {
			if label.Name == expected {
				values[expected] = label.Value
				break
			}
		}
	}
	return values
}

func sanitizeMetricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
