// internal/utils/metrics/metrics_test.go
package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransaction(t *testing.T) {
	c := NewCollector()
	c.RecordTransaction("mint", "confirmed", time.Second)
	c.RecordTransaction("mint", "confirmed", 2*time.Second)
	c.RecordTransaction("mint", "program_rejected", time.Second)

	cv := c.counter(TransactionCounterType)
	require.NotNil(t, cv)
	assert.Equal(t, 2.0, testutil.ToFloat64(cv.WithLabelValues("mint", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(cv.WithLabelValues("mint", "program_rejected")))

	c.Reset()
	assert.Equal(t, 0.0, testutil.ToFloat64(cv.WithLabelValues("mint", "confirmed")))
}

func TestRecordRPCAndValidation(t *testing.T) {
	c := NewCollector()
	c.RecordRPC("getAccountInfo", 10*time.Millisecond, nil)
	c.RecordRPC("getAccountInfo", 10*time.Millisecond, errors.New("boom"))
	c.RecordValidationError("mint", "CodeHashMismatch")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.counter(RPCErrorsType).WithLabelValues("getAccountInfo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.counter(ValidationErrorsType).WithLabelValues("mint", "CodeHashMismatch")))

	// Два коллектора не конфликтуют при регистрации
	assert.NotPanics(t, func() { NewCollector() })
}

func TestWriteToTextfile(t *testing.T) {
	c := NewCollector()
	c.RecordTransaction("set-urc", "confirmed", time.Second)

	path := filepath.Join(t.TempDir(), "fairmint.prom")
	require.NoError(t, c.WriteToTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `fairmint_transactions_total{operation="set-urc",outcome="confirmed"} 1`)
}
