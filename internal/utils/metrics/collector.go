// internal/utils/metrics/collector.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricType представляет тип метрики
type MetricType string

const (
	TransactionCounterType  MetricType = "transaction_counter"
	TransactionDurationType MetricType = "transaction_duration"
	RPCLatencyType          MetricType = "rpc_latency"
	RPCErrorsType           MetricType = "rpc_errors"
	ValidationErrorsType    MetricType = "validation_errors"
)

const namespace = "fairmint"

// Collector управляет набором метрик. Каждый экземпляр имеет собственный
// реестр, поэтому несколько коллекторов не конфликтуют при регистрации.
type Collector struct {
	metrics  sync.Map
	registry *prometheus.Registry
}

// NewCollector создает новый экземпляр коллектора метрик
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}
	c.initializeMetrics()
	return c
}

func (c *Collector) initializeMetrics() {
	metricsMap := map[MetricType]prometheus.Collector{
		TransactionCounterType: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Submitted transactions by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		TransactionDurationType: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_duration_seconds",
				Help:      "Time from send to final confirmation status",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
			},
			[]string{"operation"},
		),
		RPCLatencyType: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_latency_seconds",
				Help:      "RPC request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"method"},
		),
		RPCErrorsType: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_errors_total",
				Help:      "Failed RPC requests",
			},
			[]string{"method"},
		),
		ValidationErrorsType: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Operations rejected before submission, by error kind",
			},
			[]string{"operation", "kind"},
		),
	}

	for metricType, metric := range metricsMap {
		c.metrics.Store(metricType, metric)
		c.registry.MustRegister(metric)
	}
}

// Registry возвращает реестр коллектора.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Reset сбрасывает все метрики (полезно для тестирования)
func (c *Collector) Reset() {
	c.metrics.Range(func(_, value interface{}) bool {
		switch m := value.(type) {
		case *prometheus.CounterVec:
			m.Reset()
		case *prometheus.GaugeVec:
			m.Reset()
		case *prometheus.HistogramVec:
			m.Reset()
		}
		return true
	})
}

func (c *Collector) counter(t MetricType) *prometheus.CounterVec {
	v, ok := c.metrics.Load(t)
	if !ok {
		return nil
	}
	cv, _ := v.(*prometheus.CounterVec)
	return cv
}

func (c *Collector) histogram(t MetricType) *prometheus.HistogramVec {
	v, ok := c.metrics.Load(t)
	if !ok {
		return nil
	}
	hv, _ := v.(*prometheus.HistogramVec)
	return hv
}
