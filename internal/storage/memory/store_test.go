package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actionhub/backend/internal/domain"
)

func TestMemoryStore_MessageOperations(t *testing.T) {
	store := NewStore()

	// Empty store loads an empty, non-nil collection
	messages, err := store.LoadMessages()
	require.NoError(t, err)
	assert.Empty(t, messages)

	saved := []domain.Message{
		{LocalID: 0, ExternalID: "ext-0", Subject: "first", ReceivedAt: time.Now().UTC()},
		{LocalID: 1, ExternalID: "ext-1", Subject: "second"},
	}
	require.NoError(t, store.SaveMessages(saved))

	loaded, err := store.LoadMessages()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	// Mutating the loaded slice must not affect the store
	loaded[0].Subject = "mutated"
	again, err := store.LoadMessages()
	require.NoError(t, err)
	assert.Equal(t, "first", again[0].Subject)
}

func TestMemoryStore_ArtifactOperations(t *testing.T) {
	store := NewStore()

	tasks := []domain.Task{{ID: "0", Title: "t", EmailID: "0", Status: domain.TaskStatusPending}}
	attachments := []domain.Attachment{{ID: "1", FileName: "t.pdf", FileType: "pdf", EmailID: "0"}}

	require.NoError(t, store.SaveTasks(tasks))
	require.NoError(t, store.SaveAttachments(attachments))

	loadedTasks, err := store.LoadTasks()
	require.NoError(t, err)
	assert.Equal(t, tasks, loadedTasks)

	loadedAttachments, err := store.LoadAttachments()
	require.NoError(t, err)
	assert.Equal(t, attachments, loadedAttachments)

	// Full-replace semantics
	require.NoError(t, store.SaveTasks(nil))
	loadedTasks, err = store.LoadTasks()
	require.NoError(t, err)
	assert.Empty(t, loadedTasks)
}

func TestMemoryStore_Health(t *testing.T) {
	store := NewStore()
	assert.NoError(t, store.Health())
	assert.NoError(t, store.Close())
}
