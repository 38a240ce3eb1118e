package domain

import (
	"strings"
	"time"
)

// RawMessage 表示邮件源（Microsoft Graph）返回的一封原始邮件。
// 字段与来源系统一致，未经任何分析处理。
type RawMessage struct {
	ExternalID     string    `json:"externalId"`     // 来源系统分配的不可变标识，去重键
	Subject        string    `json:"subject"`        // 邮件主题
	SenderAddress  string    `json:"senderAddress"`  // 发件人地址
	ReceivedAt     time.Time `json:"receivedAt"`     // 接收时间
	BodyPreview    string    `json:"bodyPreview"`    // 正文预览
	IsRead         bool      `json:"isRead"`         // 是否已读
	HasAttachments bool      `json:"hasAttachments"` // 是否携带附件
	RawBody        string    `json:"rawBody"`        // 原始正文（可能为 HTML）
}

// Message 表示一封已入库的邮件及其分析结果。
// ExternalID 在存储内唯一；LocalID 按首次入库顺序从 0 递增分配，
// 分配后不再变更，也不会被复用。
type Message struct {
	LocalID        int       `json:"id"`             // 本地递增序号，0 起始
	ExternalID     string    `json:"externalId"`     // 来源系统标识，去重键
	Subject        string    `json:"subject"`        // 邮件主题
	SenderAddress  string    `json:"senderAddress"`  // 发件人地址
	SenderName     string    `json:"senderName"`     // 发件人显示名（由地址推导）
	ReceivedAt     time.Time `json:"receivedAt"`     // 接收时间
	BodyPreview    string    `json:"bodyPreview"`    // 正文预览
	IsRead         bool      `json:"isRead"`         // 是否已读
	HasAttachments bool      `json:"hasAttachments"` // 是否携带附件
	RawBody        string    `json:"rawBody"`        // 原始正文
	Analysis       Analysis  `json:"analysis"`       // 入库时计算的分析结果
}

// SenderDisplayName 从邮件地址推导发件人显示名（取 @ 前的本地部分）。
// 地址为空或不含 @ 时原样返回。
func SenderDisplayName(address string) string {
	if address == "" || !strings.Contains(address, "@") {
		return address
	}
	return strings.SplitN(address, "@", 2)[0]
}
