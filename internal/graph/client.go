package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"actionhub/backend/internal/config"
	"actionhub/backend/internal/domain"
	"actionhub/backend/internal/monitoring"
)

// graphBaseURL 是 Microsoft Graph API 的根地址
const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Client 负责从 Microsoft Graph 拉取邮件
//
// 出站请求经过熔断器保护：Graph 连续失败时快速失败，
// 避免同步请求堆积拖垮上游
type Client struct {
	http    *http.Client
	tokens  *TokenProvider
	cb      *gobreaker.CircuitBreaker
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewClient 创建 Graph 客户端。metrics 可为 nil（如命令行场景不暴露指标）。
func NewClient(cfg config.GraphConfig, tokens *TokenProvider, metrics *monitoring.Metrics, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cbSettings := gobreaker.Settings{
		Name:        "ms-graph",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
		metrics: metrics,
		log:     log,
	}
}

// graphMessage 对应 Graph /me/messages 返回的单条邮件
type graphMessage struct {
	ID               string         `json:"id"`
	Subject          string         `json:"subject"`
	BodyPreview      string         `json:"bodyPreview"`
	Body             graphBody      `json:"body"`
	From             graphRecipient `json:"from"`
	IsRead           bool           `json:"isRead"`
	HasAttachments   bool           `json:"hasAttachments"`
	ReceivedDateTime string         `json:"receivedDateTime"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphEmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ListMessages 拉取当前账户收件箱的邮件（仅第一页）
func (c *Client) ListMessages(ctx context.Context) ([]domain.RawMessage, error) {
	var resp struct {
		Value []graphMessage `json:"value"`
	}

	if err := c.get(ctx, "/me/messages", &resp); err != nil {
		return nil, err
	}

	messages := make([]domain.RawMessage, 0, len(resp.Value))
	for _, m := range resp.Value {
		messages = append(messages, convertMessage(m))
	}
	return messages, nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.doGet(ctx, path, result)
	})
	return err
}

func (c *Client) doGet(ctx context.Context, path string, result interface{}) error {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", graphBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.metrics != nil {
		c.metrics.RecordGraphRequest(time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode graph response: %w", err)
		}
	}
	return nil
}

// convertMessage 把 Graph 返回的邮件转换为内部原始邮件结构
func convertMessage(m graphMessage) domain.RawMessage {
	receivedAt, err := time.Parse(time.RFC3339, m.ReceivedDateTime)
	if err != nil {
		receivedAt = time.Time{}
	}

	return domain.RawMessage{
		ExternalID:     m.ID,
		Subject:        m.Subject,
		SenderAddress:  m.From.EmailAddress.Address,
		ReceivedAt:     receivedAt,
		BodyPreview:    m.BodyPreview,
		IsRead:         m.IsRead,
		HasAttachments: m.HasAttachments,
		RawBody:        m.Body.Content,
	}
}
