package pipeline

import (
	"go.uber.org/zap"

	"actionhub/backend/internal/analyzer"
	"actionhub/backend/internal/domain"
)

// Analyzer 定义单封正文的分析能力。
type Analyzer interface {
	Analyze(text string) (domain.Analysis, error)
}

// 单封邮件被跳过的原因。
const (
	SkipMissingExternalID = "missing_external_id" // 原始邮件缺少来源标识
	SkipDuplicate         = "duplicate"           // 来源标识已入库
	SkipAnalysisFailed    = "analysis_failed"     // 分析失败，单封隔离
)

// SkippedMessage 记录一封被跳过的邮件及原因。
type SkippedMessage struct {
	ExternalID string `json:"externalId"`
	Reason     string `json:"reason"`
}

// Report 汇总一次批量入库的逐封结果。
type Report struct {
	Ingested int              `json:"ingested"`
	Skipped  []SkippedMessage `json:"skipped"`
}

// SkippedCount 返回被跳过的邮件数量。
func (r Report) SkippedCount() int {
	return len(r.Skipped)
}

// Engine 负责把新抓取的原始邮件合并进既有集合。
// 以 ExternalID 去重，本地序号只对新成员按入库顺序分配。
type Engine struct {
	analyzer Analyzer
	log      *zap.Logger
}

// NewEngine 创建入库引擎。
func NewEngine(a Analyzer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{analyzer: a, log: log}
}

// ProcessBatch 将一批原始邮件合并进既有集合，返回更新后的集合与逐封报告。
//
// 算法：已知 ExternalID 集合取自既有集合；下一个本地序号从既有集合
// 长度起算；逐封处理，缺少标识或已知标识直接跳过；分析失败的邮件
// 单独记入报告，不中断批次，序号只在成功入库时前进。
//
// 幂等：对自身输出再次执行同一批次不会新增任何邮件。
// 输出保持插入顺序（旧在前），不重排、不压缩。
func (e *Engine) ProcessBatch(prior []domain.Message, batch []domain.RawMessage) ([]domain.Message, Report) {
	known := make(map[string]struct{}, len(prior))
	for _, m := range prior {
		known[m.ExternalID] = struct{}{}
	}
	nextID := len(prior)

	messages := make([]domain.Message, len(prior), len(prior)+len(batch))
	copy(messages, prior)

	var report Report
	for _, raw := range batch {
		if raw.ExternalID == "" {
			report.Skipped = append(report.Skipped, SkippedMessage{Reason: SkipMissingExternalID})
			continue
		}
		if _, ok := known[raw.ExternalID]; ok {
			report.Skipped = append(report.Skipped, SkippedMessage{ExternalID: raw.ExternalID, Reason: SkipDuplicate})
			continue
		}

		text := analyzer.Normalize(raw.RawBody)
		analysis, err := e.analyzer.Analyze(text)
		if err != nil {
			e.log.Warn("message analysis failed, skipping",
				zap.String("external_id", raw.ExternalID),
				zap.Error(err),
			)
			report.Skipped = append(report.Skipped, SkippedMessage{ExternalID: raw.ExternalID, Reason: SkipAnalysisFailed})
			continue
		}

		messages = append(messages, domain.Message{
			LocalID:        nextID,
			ExternalID:     raw.ExternalID,
			Subject:        raw.Subject,
			SenderAddress:  raw.SenderAddress,
			SenderName:     domain.SenderDisplayName(raw.SenderAddress),
			ReceivedAt:     raw.ReceivedAt,
			BodyPreview:    raw.BodyPreview,
			IsRead:         raw.IsRead,
			HasAttachments: raw.HasAttachments,
			RawBody:        raw.RawBody,
			Analysis:       analysis,
		})
		known[raw.ExternalID] = struct{}{}
		nextID++
		report.Ingested++
	}

	return messages, report
}
