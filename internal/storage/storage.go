package storage

import (
	"actionhub/backend/internal/domain"
)

// MessageRepository 定义邮件集合的存取操作。
// 实现必须保证插入顺序在保存 / 加载往返后不变；
// 无先验数据或数据损坏时加载返回空集合而非错误。
type MessageRepository interface {
	LoadMessages() ([]domain.Message, error)
	SaveMessages(messages []domain.Message) error
}

// ArtifactRepository 定义派生任务与附件的存取操作。
// 保存均为整体替换语义，不要求合并。
type ArtifactRepository interface {
	SaveTasks(tasks []domain.Task) error
	LoadTasks() ([]domain.Task, error)
	SaveAttachments(attachments []domain.Attachment) error
	LoadAttachments() ([]domain.Attachment, error)
}

// Store 定义完整的存储接口。
type Store interface {
	MessageRepository
	ArtifactRepository

	// 工具方法
	Close() error
	Health() error
}
