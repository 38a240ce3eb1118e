package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actionhub/backend/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func sampleMessages() []domain.Message {
	received := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Message{
		{
			LocalID:       0,
			ExternalID:    "ext-0",
			Subject:       "First",
			SenderAddress: "a@example.com",
			SenderName:    "a",
			ReceivedAt:    received,
			Analysis: domain.Analysis{
				Category:    domain.CategoryUncategorized,
				Dates:       []string{},
				Amounts:     []string{"$127.45"},
				Refs:        []string{},
				RawEntities: []domain.Entity{{Text: "invoice", Label: "BILLING"}},
			},
		},
		{
			LocalID:    1,
			ExternalID: "ext-1",
			Subject:    "Second",
			ReceivedAt: received.Add(time.Hour),
			Analysis: domain.Analysis{
				Category:    domain.CategoryUncategorized,
				Dates:       []string{},
				Amounts:     []string{},
				Refs:        []string{},
				RawEntities: []domain.Entity{},
			},
		},
	}
}

func TestStore_MessagesRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved := sampleMessages()
	require.NoError(t, store.SaveMessages(saved))

	loaded, err := store.LoadMessages()
	require.NoError(t, err)

	// 往返后内容与插入顺序完全一致
	assert.Equal(t, saved, loaded)
}

func TestStore_LoadMessages_Empty(t *testing.T) {
	store := newTestStore(t)

	messages, err := store.LoadMessages()
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.NotNil(t, messages)
}

func TestStore_LoadMessages_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	// 损坏的文件按空先验状态处理
	require.NoError(t, os.WriteFile(filepath.Join(dir, "emails.json"), []byte("{not json"), 0644))

	messages, err := store.LoadMessages()
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveMessages(sampleMessages()))
	require.NoError(t, store.SaveMessages(sampleMessages()[:1]))

	loaded, err := store.LoadMessages()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStore_ArtifactsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	amount := 127.45

	tasks := []domain.Task{
		{
			ID:       "0",
			Title:    "First",
			EmailID:  "0",
			Category: "bills",
			Priority: domain.PriorityHigh,
			Status:   domain.TaskStatusPending,
			DueDate:  time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
			QuickAction: &domain.QuickAction{
				Type:   domain.QuickActionPay,
				Label:  "Pay now",
				Amount: &amount,
			},
		},
	}
	attachments := []domain.Attachment{
		{ID: "1", FileName: "First.pdf", FileType: "pdf", FileSize: 120000, EmailID: "0"},
	}

	require.NoError(t, store.SaveTasks(tasks))
	require.NoError(t, store.SaveAttachments(attachments))

	loadedTasks, err := store.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, tasks, loadedTasks)

	loadedAttachments, err := store.LoadAttachments()
	require.NoError(t, err)
	assert.Equal(t, attachments, loadedAttachments)
}

func TestStore_Health(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Health())

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, store.Health())
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}
