package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actionhub/backend/internal/config"
)

// TestConvertMessage 测试 Graph 邮件到内部结构的转换
func TestConvertMessage(t *testing.T) {
	t.Run("完整字段转换", func(t *testing.T) {
		m := graphMessage{
			ID:               "AAMkAGI2",
			Subject:          "Notice of Assessment",
			BodyPreview:      "Your tax assessment is ready",
			Body:             graphBody{ContentType: "html", Content: "<p>Hello</p>"},
			From:             graphRecipient{EmailAddress: graphEmailAddress{Name: "IRAS", Address: "noreply@iras.gov.sg"}},
			IsRead:           true,
			HasAttachments:   true,
			ReceivedDateTime: "2025-09-03T08:15:00Z",
		}

		raw := convertMessage(m)
		assert.Equal(t, "AAMkAGI2", raw.ExternalID)
		assert.Equal(t, "Notice of Assessment", raw.Subject)
		assert.Equal(t, "noreply@iras.gov.sg", raw.SenderAddress)
		assert.Equal(t, "<p>Hello</p>", raw.RawBody)
		assert.True(t, raw.IsRead)
		assert.True(t, raw.HasAttachments)
		assert.Equal(t, time.Date(2025, 9, 3, 8, 15, 0, 0, time.UTC), raw.ReceivedAt)
	})

	t.Run("无效时间字段回退为零值", func(t *testing.T) {
		raw := convertMessage(graphMessage{ID: "x", ReceivedDateTime: "not-a-time"})
		assert.True(t, raw.ReceivedAt.IsZero())
	})
}

// TestTokenProviderRefreshTokenCache 测试刷新令牌缓存文件的读取行为
func TestTokenProviderRefreshTokenCache(t *testing.T) {
	t.Run("缓存文件不存在时返回引导错误", func(t *testing.T) {
		p := NewTokenProvider(config.GraphConfig{
			ClientID:         "client",
			RefreshTokenFile: filepath.Join(t.TempDir(), "missing.txt"),
		})

		_, err := p.Token(context.Background())
		assert.ErrorIs(t, err, ErrNoRefreshToken)
	})

	t.Run("缓存文件为空时返回引导错误", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "refresh_token.txt")
		require.NoError(t, os.WriteFile(file, []byte("  \n"), 0600))

		p := NewTokenProvider(config.GraphConfig{
			ClientID:         "client",
			RefreshTokenFile: file,
		})

		_, err := p.Token(context.Background())
		assert.ErrorIs(t, err, ErrNoRefreshToken)
	})

	t.Run("持久化后可读回轮换的刷新令牌", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "refresh_token.txt")
		p := NewTokenProvider(config.GraphConfig{
			ClientID:         "client",
			RefreshTokenFile: file,
		})

		require.NoError(t, p.persistRefreshToken("rotated-token"))

		got, err := p.loadRefreshToken()
		require.NoError(t, err)
		assert.Equal(t, "rotated-token", got)
	})
}
