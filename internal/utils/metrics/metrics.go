// internal/utils/metrics/metrics.go
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordTransaction записывает исход отправленной транзакции.
func (c *Collector) RecordTransaction(operation, outcome string, duration time.Duration) {
	if cv := c.counter(TransactionCounterType); cv != nil {
		cv.WithLabelValues(operation, outcome).Inc()
	}
	if hv := c.histogram(TransactionDurationType); hv != nil {
		hv.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// RecordRPC записывает латентность RPC-запроса и ошибку, если она была.
func (c *Collector) RecordRPC(method string, duration time.Duration, err error) {
	if hv := c.histogram(RPCLatencyType); hv != nil {
		hv.WithLabelValues(method).Observe(duration.Seconds())
	}
	if err != nil {
		if cv := c.counter(RPCErrorsType); cv != nil {
			cv.WithLabelValues(method).Inc()
		}
	}
}

// RecordValidationError учитывает операцию, отклонённую до отправки.
func (c *Collector) RecordValidationError(operation, kind string) {
	if cv := c.counter(ValidationErrorsType); cv != nil {
		cv.WithLabelValues(operation, kind).Inc()
	}
}

// WriteToTextfile сохраняет метрики в формате Prometheus text exposition.
func (c *Collector) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
