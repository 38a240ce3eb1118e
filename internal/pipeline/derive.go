package pipeline

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"actionhub/backend/internal/domain"
)

// 派生附件的大小区间（字节），占位值。
const (
	attachmentSizeMin = 80_000
	attachmentSizeMax = 300_000
)

// 类别推断用的关键字集合，按机构名小写子串匹配。
var (
	governmentOrgKeywords = []string{"iras", "cpf", "authority", "ministry", "ica"}
	financeOrgKeywords    = []string{"dbs", "ocbc", "uob", "posb", "bank"}
)

// Deriver 从邮件存储整体重算任务与附件投影。
// 纯投影：没有增量状态，每次 Derive 都基于传入的全量邮件从零生成。
type Deriver struct {
	policy PriorityPolicy
	rng    *rand.Rand
	now    func() time.Time
}

// NewDeriver 创建派生器。policy 为空时使用确定性规则策略；
// rng 为空时使用时间种子（仅影响附件占位大小）。
func NewDeriver(policy PriorityPolicy, rng *rand.Rand) *Deriver {
	if policy == nil {
		policy = RulePolicy{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Deriver{
		policy: policy,
		rng:    rng,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Derive 对全量邮件重算任务与附件。
// 每封邮件恰好产出一个任务；仅 HasAttachments 的邮件产出附件，
// 附件序号在一次生成内从 1 递增，按邮件遍历顺序分配。
func (d *Deriver) Derive(messages []domain.Message) ([]domain.Task, []domain.Attachment) {
	tasks := make([]domain.Task, 0, len(messages))
	attachments := make([]domain.Attachment, 0)
	attachmentID := 1

	for _, msg := range messages {
		received := msg.ReceivedAt
		if received.IsZero() {
			received = d.now()
		}

		category := inferCategory(msg.Analysis, msg.Subject)
		emailID := strconv.Itoa(msg.LocalID)

		title := msg.Subject
		if title == "" {
			title = "Follow up email"
		}

		task := domain.Task{
			ID:          emailID,
			Title:       title,
			Description: truncateDescription(msg.BodyPreview),
			EmailID:     emailID,
			Category:    category,
			Priority:    d.policy.Priority(msg, category),
			Status:      domain.TaskStatusPending,
			DueDate:     inferDueDate(msg.Analysis, received),
			CreatedAt:   received,
			QuickAction: inferQuickAction(msg),
		}
		tasks = append(tasks, task)

		if msg.HasAttachments {
			attachments = append(attachments, domain.Attachment{
				ID:         strconv.Itoa(attachmentID),
				FileName:   attachmentFileName(msg),
				FileType:   "pdf",
				FileSize:   attachmentSizeMin + d.rng.Intn(attachmentSizeMax-attachmentSizeMin),
				Category:   category,
				UploadedAt: received,
				EmailID:    emailID,
			})
			attachmentID++
		}
	}

	return tasks, attachments
}

// truncateDescription 将正文预览截断到 200 字符以内，超长时以省略号结尾。
func truncateDescription(preview string) string {
	runes := []rune(preview)
	if len(runes) <= 200 {
		return preview
	}
	return string(runes[:197]) + "..."
}

// inferCategory 按固定优先序推断类别，先命中者胜。
// 全部比较均为小写子串匹配。
func inferCategory(analysis domain.Analysis, subject string) string {
	org := strings.ToLower(analysis.Organization)
	emailType := strings.ToLower(analysis.MessageType)
	subjectLower := strings.ToLower(subject)
	existing := strings.ToLower(analysis.Category)

	// 分析阶段已有非兜底类别时保持不变
	if existing != "" && existing != domain.CategoryUncategorized {
		return existing
	}

	if containsAny(org, governmentOrgKeywords) {
		return "government"
	}
	if containsAny(org, financeOrgKeywords) {
		return "finance"
	}
	if strings.Contains(subjectLower, "bill") || strings.Contains(emailType, "utility") {
		return "bills"
	}
	if analysis.HasAppointment {
		return "healthcare"
	}
	if analysis.HasRenewal {
		// 典型场景是证照续期
		return "government"
	}

	return domain.CategoryUncategorized
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// inferQuickAction 按固定优先序推断快捷操作，先命中者胜；均不命中时返回 nil。
func inferQuickAction(msg domain.Message) *domain.QuickAction {
	preview := strings.ToLower(msg.BodyPreview)
	amount := firstAmount(msg.Analysis)

	switch {
	case msg.Analysis.HasBilling ||
		strings.Contains(preview, "payment due") ||
		strings.Contains(preview, "amount payable"):
		return &domain.QuickAction{Type: domain.QuickActionPay, Label: "Pay now", Amount: amount}

	case msg.Analysis.HasRenewal || msg.Analysis.DocsRequired:
		return &domain.QuickAction{Type: domain.QuickActionRenew, Label: "Renew / submit documents", Amount: amount}

	case msg.Analysis.HasActionLink || strings.Contains(preview, "click here"):
		return &domain.QuickAction{Type: domain.QuickActionOpen, Label: "View details", Amount: amount}
	}

	return nil
}

// firstAmount 取首个提取金额并解析，解析失败时返回 nil。
func firstAmount(analysis domain.Analysis) *float64 {
	if len(analysis.Amounts) == 0 {
		return nil
	}
	value, ok := ParseAmount(analysis.Amounts[0])
	if !ok {
		return nil
	}
	return &value
}

// ParseAmount 将 "$3,245.00" 形式的金额串解析为数值。
// 去掉货币符号与千位分隔后按十进制解析；无法解析时 ok 为 false。
func ParseAmount(s string) (value float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// inferDueDate 从首个提取日期解析截止时间，解析失败或无日期时取接收时间 +7 天。
func inferDueDate(analysis domain.Analysis, received time.Time) time.Time {
	if len(analysis.Dates) > 0 {
		if due, ok := parseHumanDate(analysis.Dates[0]); ok {
			return due
		}
	}
	return received.AddDate(0, 0, 7)
}

// parseHumanDate 解析 "10 Apr 2025" / "10 April 2025" 形式的日期。
func parseHumanDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2 Jan 2006", "2 January 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// attachmentFileName 用主题构造占位附件名，空主题回退为 email_<localId>。
func attachmentFileName(msg domain.Message) string {
	base := strings.TrimSpace(msg.Subject)
	if base == "" {
		base = fmt.Sprintf("email_%d", msg.LocalID)
	}
	return strings.ReplaceAll(base, " ", "_") + ".pdf"
}
