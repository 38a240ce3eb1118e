package httptransport

import (
	"actionhub/backend/internal/graph"
)

// 错误消息映射表（业务错误 -> 中文消息）
var errorMessages = map[error]string{
	graph.ErrNoRefreshToken: "邮件源尚未授权，请先完成授权引导",
}

// GetErrorMessage 获取错误的中文消息
func GetErrorMessage(err error) string {
	if msg, ok := errorMessages[err]; ok {
		return msg
	}
	return err.Error()
}

// 通用错误消息
const (
	// 同步相关
	MsgSyncFailed        = "同步失败，请稍后重试"
	MsgSyncRateLimited   = "同步请求过于频繁，请稍后重试"
	MsgSourceUnavailable = "邮件源暂时不可用"

	// 查询相关
	MsgEmailListFailed      = "获取邮件列表失败"
	MsgTaskListFailed       = "获取任务列表失败"
	MsgAttachmentListFailed = "获取附件列表失败"
)
