package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actionhub/backend/internal/analyzer"
	"actionhub/backend/internal/domain"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	a, err := analyzer.New(analyzer.DefaultPatterns())
	require.NoError(t, err)
	return NewEngine(a, nil)
}

func rawMessage(externalID string) domain.RawMessage {
	return domain.RawMessage{
		ExternalID:    externalID,
		Subject:       "Subject " + externalID,
		SenderAddress: "sender@example.com",
		ReceivedAt:    time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		BodyPreview:   "preview",
		RawBody:       "<p>plain body</p>",
	}
}

func TestEngine_ProcessBatch_AssignsMonotonicLocalIDs(t *testing.T) {
	engine := newTestEngine(t)

	batch := []domain.RawMessage{rawMessage("a"), rawMessage("b"), rawMessage("c")}
	messages, report := engine.ProcessBatch(nil, batch)

	require.Len(t, messages, 3)
	assert.Equal(t, 3, report.Ingested)
	assert.Empty(t, report.Skipped)

	for i, msg := range messages {
		assert.Equal(t, i, msg.LocalID)
	}

	// 第二批在已有序号之后继续分配
	more := []domain.RawMessage{rawMessage("d")}
	messages, report = engine.ProcessBatch(messages, more)
	require.Len(t, messages, 4)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 3, messages[3].LocalID)
}

func TestEngine_ProcessBatch_Idempotent(t *testing.T) {
	engine := newTestEngine(t)

	batch := []domain.RawMessage{rawMessage("a"), rawMessage("b")}
	first, _ := engine.ProcessBatch(nil, batch)
	second, report := engine.ProcessBatch(first, batch)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, report.Ingested)
	assert.Len(t, report.Skipped, 2)
	for _, s := range report.Skipped {
		assert.Equal(t, SkipDuplicate, s.Reason)
	}
}

func TestEngine_ProcessBatch_SkipsMissingExternalID(t *testing.T) {
	engine := newTestEngine(t)

	messages, report := engine.ProcessBatch(nil, []domain.RawMessage{
		rawMessage("a"),
		{Subject: "no id"},
		rawMessage("b"),
	})

	require.Len(t, messages, 2)
	assert.Equal(t, []int{0, 1}, []int{messages[0].LocalID, messages[1].LocalID})
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkipMissingExternalID, report.Skipped[0].Reason)
}

func TestEngine_ProcessBatch_DedupWithinBatch(t *testing.T) {
	engine := newTestEngine(t)

	messages, report := engine.ProcessBatch(nil, []domain.RawMessage{
		rawMessage("a"), rawMessage("a"),
	})

	require.Len(t, messages, 1)
	assert.Equal(t, 1, report.Ingested)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkipDuplicate, report.Skipped[0].Reason)

	seen := map[string]bool{}
	for _, m := range messages {
		assert.False(t, seen[m.ExternalID])
		seen[m.ExternalID] = true
	}
}

// failingAnalyzer 在命中指定正文时返回错误，用于验证单封隔离。
type failingAnalyzer struct {
	inner   Analyzer
	failOn  string
	failErr error
}

func (f *failingAnalyzer) Analyze(text string) (domain.Analysis, error) {
	if strings.Contains(text, f.failOn) {
		return domain.Analysis{}, f.failErr
	}
	return f.inner.Analyze(text)
}

func TestEngine_ProcessBatch_AnalysisFailureIsolated(t *testing.T) {
	inner, err := analyzer.New(analyzer.DefaultPatterns())
	require.NoError(t, err)

	engine := NewEngine(&failingAnalyzer{
		inner:   inner,
		failOn:  "poison",
		failErr: errors.New("boom"),
	}, nil)

	bad := rawMessage("bad")
	bad.RawBody = "poison body"

	messages, report := engine.ProcessBatch(nil, []domain.RawMessage{
		rawMessage("a"), bad, rawMessage("b"),
	})

	// 失败的一封被跳过，序号不留空洞
	require.Len(t, messages, 2)
	assert.Equal(t, "a", messages[0].ExternalID)
	assert.Equal(t, "b", messages[1].ExternalID)
	assert.Equal(t, 0, messages[0].LocalID)
	assert.Equal(t, 1, messages[1].LocalID)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkippedMessage{ExternalID: "bad", Reason: SkipAnalysisFailed}, report.Skipped[0])
}

func TestEngine_ProcessBatch_PreservesInsertionOrder(t *testing.T) {
	engine := newTestEngine(t)

	var batch []domain.RawMessage
	for i := 0; i < 10; i++ {
		batch = append(batch, rawMessage(fmt.Sprintf("m%02d", i)))
	}

	messages, _ := engine.ProcessBatch(nil, batch)
	require.Len(t, messages, 10)
	for i, m := range messages {
		assert.Equal(t, fmt.Sprintf("m%02d", i), m.ExternalID)
	}
}

func TestEngine_ProcessBatch_AnalyzesBody(t *testing.T) {
	engine := newTestEngine(t)

	raw := rawMessage("noa")
	raw.RawBody = "<p>Your Notice of Assessment is ready. Payment due: $127.45 by 10 Apr 2025.</p>"

	messages, _ := engine.ProcessBatch(nil, []domain.RawMessage{raw})
	require.Len(t, messages, 1)

	an := messages[0].Analysis
	assert.Equal(t, "Notice of Assessment", an.MessageType)
	assert.True(t, an.HasBilling)
	assert.Equal(t, []string{"$127.45"}, an.Amounts)
	assert.Equal(t, []string{"10 Apr 2025"}, an.Dates)
	assert.Equal(t, "sender", messages[0].SenderName)
}
