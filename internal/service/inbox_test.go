package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actionhub/backend/internal/analyzer"
	"actionhub/backend/internal/domain"
	"actionhub/backend/internal/pipeline"
	"actionhub/backend/internal/storage/memory"
)

// stubSource 模拟邮件来源
type stubSource struct {
	messages []domain.RawMessage
	err      error
}

func (s *stubSource) ListMessages(ctx context.Context) ([]domain.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.messages, nil
}

func newTestService(t *testing.T, source *stubSource) (*InboxService, *memory.Store) {
	t.Helper()

	a, err := analyzer.New(analyzer.DefaultPatterns())
	require.NoError(t, err)

	store := memory.NewStore()
	engine := pipeline.NewEngine(a, nil)
	deriver := pipeline.NewDeriver(pipeline.RulePolicy{}, nil)

	return NewInboxService(store, source, engine, deriver, nil, nil), store
}

func sampleBatch() []domain.RawMessage {
	return []domain.RawMessage{
		{
			ExternalID:    "ext-1",
			Subject:       "Notice of Assessment",
			SenderAddress: "noreply@iras.gov.sg",
			ReceivedAt:    time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
			BodyPreview:   "Your assessment is ready",
			RawBody:       "<p>IRAS Notice of Assessment. Payment due by 15 Sep 2025. Amount: $3,245.00</p>",
		},
		{
			ExternalID:     "ext-2",
			Subject:        "Gym membership",
			SenderAddress:  "hello@gym.example",
			ReceivedAt:     time.Date(2025, 9, 2, 9, 0, 0, 0, time.UTC),
			BodyPreview:    "Your membership is due for renewal",
			RawBody:        "Your membership is due for renewal.",
			HasAttachments: true,
		},
	}
}

// TestInboxServiceSync 测试完整的同步流程
func TestInboxServiceSync(t *testing.T) {
	t.Run("首次同步入库并生成派生产物", func(t *testing.T) {
		svc, store := newTestService(t, &stubSource{messages: sampleBatch()})

		result, err := svc.Sync(context.Background())
		require.NoError(t, err)

		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, 2, result.Ingested)
		assert.Equal(t, 0, result.Skipped)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 2, result.Tasks)
		assert.Equal(t, 1, result.Attachments)

		messages, err := store.LoadMessages()
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, 0, messages[0].LocalID)
		assert.Equal(t, 1, messages[1].LocalID)

		tasks, err := store.LoadTasks()
		require.NoError(t, err)
		require.Len(t, tasks, 2)

		attachments, err := store.LoadAttachments()
		require.NoError(t, err)
		require.Len(t, attachments, 1)
		assert.Equal(t, "1", attachments[0].EmailID)
	})

	t.Run("重复同步幂等", func(t *testing.T) {
		svc, store := newTestService(t, &stubSource{messages: sampleBatch()})

		_, err := svc.Sync(context.Background())
		require.NoError(t, err)

		result, err := svc.Sync(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 0, result.Ingested)
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, 2, result.Total)

		messages, err := store.LoadMessages()
		require.NoError(t, err)
		assert.Len(t, messages, 2)
	})

	t.Run("来源失败时不落盘", func(t *testing.T) {
		svc, store := newTestService(t, &stubSource{err: errors.New("graph unavailable")})

		_, err := svc.Sync(context.Background())
		require.Error(t, err)

		messages, err := store.LoadMessages()
		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("跳过明细进入结果", func(t *testing.T) {
		batch := append(sampleBatch(), domain.RawMessage{Subject: "no id"})
		svc, _ := newTestService(t, &stubSource{messages: batch})

		result, err := svc.Sync(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, result.Ingested)
		require.Len(t, result.SkippedList, 1)
		assert.Equal(t, pipeline.SkipMissingExternalID, result.SkippedList[0].Reason)
	})
}

// TestInboxServiceQueries 测试查询访问器
func TestInboxServiceQueries(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{messages: sampleBatch()})

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	emails, err := svc.Emails()
	require.NoError(t, err)
	assert.Len(t, emails, 2)

	tasks, err := svc.Tasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	attachments, err := svc.Attachments()
	require.NoError(t, err)
	assert.Len(t, attachments, 1)
}
