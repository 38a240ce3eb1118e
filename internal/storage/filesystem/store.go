package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"actionhub/backend/internal/domain"
)

// 各集合对应的 JSON 文件名。
const (
	messagesFile    = "emails.json"
	tasksFile       = "tasks.json"
	attachmentsFile = "attachments.json"
)

// Store 把邮件与派生投影保存为基础目录下的 JSON 文件。
// 集合按插入顺序序列化为数组，保存 / 加载往返保持顺序不变。
type Store struct {
	basePath string
}

// NewStore 创建文件系统存储实例。
func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path is empty")
	}

	// 确保基础目录存在
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Store{basePath: basePath}, nil
}

// LoadMessages 加载邮件集合。文件缺失或内容损坏时返回空集合。
func (s *Store) LoadMessages() ([]domain.Message, error) {
	var messages []domain.Message
	if err := s.loadJSON(messagesFile, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// SaveMessages 保存邮件集合，整体覆盖既有文件。
func (s *Store) SaveMessages(messages []domain.Message) error {
	return s.saveJSON(messagesFile, messages)
}

// SaveTasks 保存任务投影，整体替换。
func (s *Store) SaveTasks(tasks []domain.Task) error {
	return s.saveJSON(tasksFile, tasks)
}

// LoadTasks 加载任务投影。
func (s *Store) LoadTasks() ([]domain.Task, error) {
	var tasks []domain.Task
	if err := s.loadJSON(tasksFile, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// SaveAttachments 保存附件投影，整体替换。
func (s *Store) SaveAttachments(attachments []domain.Attachment) error {
	return s.saveJSON(attachmentsFile, attachments)
}

// LoadAttachments 加载附件投影。
func (s *Store) LoadAttachments() ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	if err := s.loadJSON(attachmentsFile, &attachments); err != nil {
		return nil, err
	}
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return attachments, nil
}

// Close 实现 storage.Store，文件存储无需清理。
func (s *Store) Close() error {
	return nil
}

// Health 检查基础目录是否仍然可用。
func (s *Store) Health() error {
	info, err := os.Stat(s.basePath)
	if err != nil {
		return fmt.Errorf("base path unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base path is not a directory")
	}
	return nil
}

// loadJSON 读取并反序列化一个集合文件。
// 文件不存在或 JSON 损坏都视为"无先验状态"，out 保持零值。
func (s *Store) loadJSON(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.basePath, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// 损坏的文件按空状态处理，后续保存会覆盖
		return nil
	}
	return nil
}

// saveJSON 序列化集合并原子性地替换目标文件。
func (s *Store) saveJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	target := filepath.Join(s.basePath, name)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
