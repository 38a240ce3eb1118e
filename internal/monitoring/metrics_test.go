package monitoring

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promauto 注册进默认注册表，同一进程只能构造一次
var testMetrics = NewMetrics()

func readHistogram(t *testing.T, m interface{ Write(*dto.Metric) error }) *dto.Histogram {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	return pb.GetHistogram()
}

func TestRecordGraphRequest(t *testing.T) {
	before := readHistogram(t, testMetrics.GraphRequestDuration).GetSampleCount()

	testMetrics.RecordGraphRequest(150 * time.Millisecond)
	testMetrics.RecordGraphRequest(50 * time.Millisecond)

	hist := readHistogram(t, testMetrics.GraphRequestDuration)
	assert.Equal(t, before+2, hist.GetSampleCount())
	assert.InDelta(t, 0.2, hist.GetSampleSum(), 0.001)
}

func TestRecordSyncRun(t *testing.T) {
	testMetrics.RecordSyncRun("success", 2*time.Second)

	var pb dto.Metric
	require.NoError(t, testMetrics.SyncLastSuccess.Write(&pb))
	// success 会刷新最近成功时间戳
	assert.InDelta(t, float64(time.Now().Unix()), pb.GetGauge().GetValue(), 5)
}
