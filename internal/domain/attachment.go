package domain

import "time"

// Attachment 表示从邮件推导出的附件占位记录。
// 仅当邮件 HasAttachments 为 true 时生成；ID 在一次生成内从 1 递增。
// 与 Task 相同，每次生成整体替换。
type Attachment struct {
	ID         string    `json:"id"`         // 生成序号，字符串形式，1 起始
	FileName   string    `json:"fileName"`   // 主题下划线化 + 扩展名，主题为空则 email_<localId>
	FileType   string    `json:"fileType"`   // 固定 pdf
	FileSize   int       `json:"fileSize"`   // 有界伪随机大小（字节）
	Category   string    `json:"category"`   // 与所属任务相同的推导类别
	UploadedAt time.Time `json:"uploadedAt"` // = 邮件接收时间
	EmailID    string    `json:"emailId"`    // 所属邮件 LocalID
}
