package domain

import "time"

// TaskPriority 任务优先级。
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskStatusPending 新生成任务的初始状态。
const TaskStatusPending = "pending"

// 快捷操作类型。
const (
	QuickActionPay   = "pay"   // 支付类操作
	QuickActionRenew = "renew" // 续期 / 提交材料
	QuickActionOpen  = "open"  // 查看详情
)

// QuickAction 表示从分析结果推导出的一键跟进操作。
type QuickAction struct {
	Type   string   `json:"type"`             // pay / renew / open
	Label  string   `json:"label"`            // 展示文案
	URL    *string  `json:"url,omitempty"`    // 跳转链接（当前无来源，保留字段）
	Amount *float64 `json:"amount,omitempty"` // 解析出的金额，解析失败则缺省
}

// Task 表示从一封邮件推导出的跟进任务。
// 任务是邮件存储的派生投影：每次生成都基于当前全量邮件重算，整体替换。
type Task struct {
	ID          string       `json:"id"`                    // 邮件 LocalID 的字符串形式
	Title       string       `json:"title"`                 // 任务标题（邮件主题）
	Description string       `json:"description"`           // 正文预览，超 200 字符截断
	EmailID     string       `json:"emailId"`               // 所属邮件 LocalID
	Category    string       `json:"category"`              // 推导类别
	Priority    TaskPriority `json:"priority"`              // low / normal / high / urgent
	Status      string       `json:"status"`                // 生成时恒为 pending
	DueDate     time.Time    `json:"dueDate"`               // 截止时间
	CreatedAt   time.Time    `json:"createdAt"`             // 创建时间（= 邮件接收时间）
	QuickAction *QuickAction `json:"quickAction,omitempty"` // 可选的快捷操作
}
