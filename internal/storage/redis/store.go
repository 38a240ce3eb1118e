package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"actionhub/backend/internal/config"
	"actionhub/backend/internal/domain"
)

// 各集合对应的 Redis 键。
const (
	messagesKey    = "actionhub:emails"
	tasksKey       = "actionhub:tasks"
	attachmentsKey = "actionhub:attachments"
)

const opTimeout = 3 * time.Second

// Store 把邮件与派生投影作为 JSON 串保存在 Redis 中。
// 集合整体序列化为单个键，插入顺序随数组原样保留。
type Store struct {
	rdb *goredis.Client
}

// NewStore 创建 Redis 存储实例并验证连接。
func NewStore(cfg *config.RedisConfig) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{rdb: rdb}, nil
}

// LoadMessages 加载邮件集合。键不存在或内容损坏时返回空集合。
func (s *Store) LoadMessages() ([]domain.Message, error) {
	var messages []domain.Message
	if err := s.loadJSON(messagesKey, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// SaveMessages 整体替换邮件集合。
func (s *Store) SaveMessages(messages []domain.Message) error {
	return s.saveJSON(messagesKey, messages)
}

// SaveTasks 整体替换任务投影。
func (s *Store) SaveTasks(tasks []domain.Task) error {
	return s.saveJSON(tasksKey, tasks)
}

// LoadTasks 加载任务投影。
func (s *Store) LoadTasks() ([]domain.Task, error) {
	var tasks []domain.Task
	if err := s.loadJSON(tasksKey, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// SaveAttachments 整体替换附件投影。
func (s *Store) SaveAttachments(attachments []domain.Attachment) error {
	return s.saveJSON(attachmentsKey, attachments)
}

// LoadAttachments 加载附件投影。
func (s *Store) LoadAttachments() ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	if err := s.loadJSON(attachmentsKey, &attachments); err != nil {
		return nil, err
	}
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return attachments, nil
}

// Close 关闭 Redis 连接。
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Health 测试 Redis 连接。
func (s *Store) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}

// loadJSON 读取并反序列化一个集合键。
// 键不存在或 JSON 损坏都视为"无先验状态"。
func (s *Store) loadJSON(key string, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// 损坏的数据按空状态处理，后续保存会覆盖
		return nil
	}
	return nil
}

// saveJSON 序列化集合并覆盖目标键，不设置过期时间。
func (s *Store) saveJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
