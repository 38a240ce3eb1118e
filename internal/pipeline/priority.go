package pipeline

import (
	"math/rand"
	"time"

	"actionhub/backend/internal/domain"
)

// PriorityPolicy 决定一个派生任务的优先级。
// 策略可插拔：默认使用确定性规则，也可配置为均匀随机以对齐历史行为。
type PriorityPolicy interface {
	Priority(msg domain.Message, category string) domain.TaskPriority
}

// RulePolicy 基于分析标记与类别的确定性优先级规则。
type RulePolicy struct{}

// Priority 按固定顺序评估：
// 身份验证类最紧急，账单类其次，续期 / 材料 / 预约居中，其余为低。
func (RulePolicy) Priority(msg domain.Message, category string) domain.TaskPriority {
	an := msg.Analysis
	switch {
	case an.VerificationNeeded:
		return domain.PriorityUrgent
	case an.HasBilling:
		return domain.PriorityHigh
	case an.HasRenewal || an.DocsRequired || an.HasAppointment:
		return domain.PriorityNormal
	case category == "government" || category == "finance":
		return domain.PriorityNormal
	default:
		return domain.PriorityLow
	}
}

var priorities = []domain.TaskPriority{
	domain.PriorityLow,
	domain.PriorityNormal,
	domain.PriorityHigh,
	domain.PriorityUrgent,
}

// RandomPolicy 在四档优先级中均匀随机取一档。
// 对齐历史系统的行为，仅在显式配置时启用。
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy 创建随机优先级策略，seed 为 0 时取当前时间。
func NewRandomPolicy(seed int64) *RandomPolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

// Priority 随机返回一档优先级，与邮件内容无关。
func (p *RandomPolicy) Priority(domain.Message, string) domain.TaskPriority {
	return priorities[p.rng.Intn(len(priorities))]
}
