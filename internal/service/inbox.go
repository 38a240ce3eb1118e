package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"actionhub/backend/internal/domain"
	"actionhub/backend/internal/monitoring"
	"actionhub/backend/internal/pipeline"
	"actionhub/backend/internal/storage"
)

// MessageSource 抽象邮件来源，生产环境为 Microsoft Graph
type MessageSource interface {
	ListMessages(ctx context.Context) ([]domain.RawMessage, error)
}

// SyncResult 汇总一次同步的结果
type SyncResult struct {
	RunID       string                    `json:"runId"`       // 本次同步的唯一标识
	Ingested    int                       `json:"ingested"`    // 新入库邮件数
	Skipped     int                       `json:"skipped"`     // 跳过的邮件数
	Total       int                       `json:"total"`       // 同步后存储中的邮件总数
	Tasks       int                       `json:"tasks"`       // 重建后的任务总数
	Attachments int                       `json:"attachments"` // 重建后的附件总数
	SkippedList []pipeline.SkippedMessage `json:"skippedList,omitempty"`
}

// InboxService 封装收件箱同步与查询的业务操作
//
// 同步流程：加载已有邮件 → 拉取来源邮件 → 批量去重入库 →
// 保存邮件 → 全量重建任务与附件 → 保存派生产物。
// 同一时刻只允许一次同步在执行，并发调用会排队。
type InboxService struct {
	store   storage.Store
	source  MessageSource
	engine  *pipeline.Engine
	deriver *pipeline.Deriver
	metrics *monitoring.Metrics
	log     *zap.Logger

	mu sync.Mutex // 串行化同步
}

// NewInboxService 创建收件箱业务服务
func NewInboxService(store storage.Store, source MessageSource, engine *pipeline.Engine, deriver *pipeline.Deriver, metrics *monitoring.Metrics, log *zap.Logger) *InboxService {
	if log == nil {
		log = zap.NewNop()
	}

	return &InboxService{
		store:   store,
		source:  source,
		engine:  engine,
		deriver: deriver,
		metrics: metrics,
		log:     log,
	}
}

// Sync 执行一次完整的同步
func (s *InboxService) Sync(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.New().String()
	start := time.Now()

	result, err := s.doSync(ctx, runID)
	duration := time.Since(start)

	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.metrics.RecordSyncRun(outcome, duration)
	}

	if err != nil {
		s.log.Error("sync run failed",
			zap.String("run_id", runID),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("sync run completed",
		zap.String("run_id", runID),
		zap.Int("ingested", result.Ingested),
		zap.Int("skipped", result.Skipped),
		zap.Int("total", result.Total),
		zap.Int("tasks", result.Tasks),
		zap.Int("attachments", result.Attachments),
		zap.Duration("duration", duration))

	return result, nil
}

func (s *InboxService) doSync(ctx context.Context, runID string) (*SyncResult, error) {
	prior, err := s.store.LoadMessages()
	if err != nil {
		return nil, fmt.Errorf("failed to load stored messages: %w", err)
	}

	batch, err := s.source.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages from source: %w", err)
	}

	messages, report := s.engine.ProcessBatch(prior, batch)

	if err := s.store.SaveMessages(messages); err != nil {
		return nil, fmt.Errorf("failed to save messages: %w", err)
	}

	// 任务与附件每次从全量邮件重建，整体替换旧产物
	tasks, attachments := s.deriver.Derive(messages)

	if err := s.store.SaveTasks(tasks); err != nil {
		return nil, fmt.Errorf("failed to save tasks: %w", err)
	}
	if err := s.store.SaveAttachments(attachments); err != nil {
		return nil, fmt.Errorf("failed to save attachments: %w", err)
	}

	if s.metrics != nil {
		for i := 0; i < report.Ingested; i++ {
			s.metrics.RecordMessageIngested()
		}
		for _, skipped := range report.Skipped {
			s.metrics.RecordMessageSkipped(skipped.Reason)
		}
		s.metrics.UpdateMessagesTotal(len(messages))
		s.metrics.UpdateTasksGenerated(len(tasks))
		s.metrics.UpdateAttachmentsGenerated(len(attachments))
	}

	return &SyncResult{
		RunID:       runID,
		Ingested:    report.Ingested,
		Skipped:     report.SkippedCount(),
		Total:       len(messages),
		Tasks:       len(tasks),
		Attachments: len(attachments),
		SkippedList: report.Skipped,
	}, nil
}

// Emails 返回当前存储中的全部邮件（按入库顺序）
func (s *InboxService) Emails() ([]domain.Message, error) {
	return s.store.LoadMessages()
}

// Tasks 返回最近一次同步重建的任务列表
func (s *InboxService) Tasks() ([]domain.Task, error) {
	return s.store.LoadTasks()
}

// Attachments 返回最近一次同步重建的附件列表
func (s *InboxService) Attachments() ([]domain.Attachment, error) {
	return s.store.LoadAttachments()
}
