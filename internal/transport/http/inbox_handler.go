package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"

	"actionhub/backend/internal/domain"
	"actionhub/backend/internal/graph"
	"actionhub/backend/internal/service"
)

// InboxHandler 聚合收件箱相关的 HTTP 处理逻辑
type InboxHandler struct {
	inbox *service.InboxService
}

// NewInboxHandler 创建收件箱处理器
func NewInboxHandler(inbox *service.InboxService) *InboxHandler {
	return &InboxHandler{inbox: inbox}
}

type emailListResponse struct {
	Items []domain.Message `json:"items"`
	Count int              `json:"count"`
}

type taskListResponse struct {
	Items []domain.Task `json:"items"`
	Count int           `json:"count"`
}

type attachmentListResponse struct {
	Items []domain.Attachment `json:"items"`
	Count int                 `json:"count"`
}

// listEmails 同步并返回全部邮件
//
// 与前端的约定：每次拉取邮件列表前先做一次同步，
// 保证返回的集合包含来源的最新邮件
func (h *InboxHandler) listEmails(c *gin.Context) {
	if _, err := h.inbox.Sync(c.Request.Context()); err != nil {
		h.writeSyncError(c, err)
		return
	}

	emails, err := h.inbox.Emails()
	if err != nil {
		InternalError(c, MsgEmailListFailed)
		return
	}

	Success(c, emailListResponse{
		Items: emails,
		Count: len(emails),
	})
}

// triggerSync 显式触发一次同步并返回结果摘要
func (h *InboxHandler) triggerSync(c *gin.Context) {
	result, err := h.inbox.Sync(c.Request.Context())
	if err != nil {
		h.writeSyncError(c, err)
		return
	}

	SuccessWithMsg(c, "同步完成", result)
}

// listTasks 返回最近一次同步重建的任务列表
func (h *InboxHandler) listTasks(c *gin.Context) {
	tasks, err := h.inbox.Tasks()
	if err != nil {
		InternalError(c, MsgTaskListFailed)
		return
	}

	Success(c, taskListResponse{
		Items: tasks,
		Count: len(tasks),
	})
}

// listAttachments 返回最近一次同步重建的附件列表
func (h *InboxHandler) listAttachments(c *gin.Context) {
	attachments, err := h.inbox.Attachments()
	if err != nil {
		InternalError(c, MsgAttachmentListFailed)
		return
	}

	Success(c, attachmentListResponse{
		Items: attachments,
		Count: len(attachments),
	})
}

// writeSyncError 把同步错误映射为合适的 HTTP 响应
func (h *InboxHandler) writeSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, graph.ErrNoRefreshToken):
		ServiceUnavailable(c, GetErrorMessage(graph.ErrNoRefreshToken))
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		ServiceUnavailable(c, MsgSourceUnavailable)
	default:
		InternalError(c, MsgSyncFailed)
	}
}
