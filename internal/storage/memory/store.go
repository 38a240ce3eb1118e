package memory

import (
	"sync"

	"actionhub/backend/internal/domain"
)

// Store 使用内存保存邮件与派生投影，主要用于开发与测试。
// 读写都基于副本，调用方拿到的切片与内部状态互不干扰。
type Store struct {
	mu          sync.RWMutex
	messages    []domain.Message
	tasks       []domain.Task
	attachments []domain.Attachment
}

// NewStore 创建一个内存存储实例。
func NewStore() *Store {
	return &Store{
		messages:    []domain.Message{},
		tasks:       []domain.Task{},
		attachments: []domain.Attachment{},
	}
}

// LoadMessages 返回邮件集合的副本，保持插入顺序。
func (s *Store) LoadMessages() ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

// SaveMessages 整体替换邮件集合。
func (s *Store) SaveMessages(messages []domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = make([]domain.Message, len(messages))
	copy(s.messages, messages)
	return nil
}

// SaveTasks 整体替换任务投影。
func (s *Store) SaveTasks(tasks []domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]domain.Task, len(tasks))
	copy(s.tasks, tasks)
	return nil
}

// LoadTasks 返回任务投影的副本。
func (s *Store) LoadTasks() ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// SaveAttachments 整体替换附件投影。
func (s *Store) SaveAttachments(attachments []domain.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attachments = make([]domain.Attachment, len(attachments))
	copy(s.attachments, attachments)
	return nil
}

// LoadAttachments 返回附件投影的副本。
func (s *Store) LoadAttachments() ([]domain.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Attachment, len(s.attachments))
	copy(out, s.attachments)
	return out, nil
}

// Close 实现 storage.Store。
func (s *Store) Close() error {
	return nil
}

// Health 实现 storage.Store，内存存储恒为健康。
func (s *Store) Health() error {
	return nil
}
