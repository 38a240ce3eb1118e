package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"actionhub/backend/internal/config"
)

// ErrNoRefreshToken 表示本地没有缓存的刷新令牌，需要先完成一次授权码引导
var ErrNoRefreshToken = errors.New("no cached refresh token, run the auth bootstrap first")

// TokenProvider 管理 Microsoft 个人账户（consumers 租户）的 OAuth2 令牌
//
// 刷新令牌缓存在本地文件中，每次成功刷新后如果服务端轮换了
// 刷新令牌，会把新令牌写回缓存文件
type TokenProvider struct {
	oauth  *oauth2.Config
	file   string // 刷新令牌缓存文件路径
	mu     sync.Mutex
	cached *oauth2.Token
}

// NewTokenProvider 根据配置创建令牌管理器
func NewTokenProvider(cfg config.GraphConfig) *TokenProvider {
	return &TokenProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint:     microsoft.AzureADEndpoint("consumers"),
		},
		file: cfg.RefreshTokenFile,
	}
}

// AuthCodeURL 返回授权码引导的跳转地址
func (p *TokenProvider) AuthCodeURL() string {
	return p.oauth.AuthCodeURL("", oauth2.AccessTypeOffline)
}

// Exchange 用授权码换取令牌，并把刷新令牌写入缓存文件
func (p *TokenProvider) Exchange(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("authorization code is required")
	}

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = tok
	if tok.RefreshToken != "" {
		if err := p.persistRefreshToken(tok.RefreshToken); err != nil {
			return err
		}
	}
	return nil
}

// Token 返回一个可用的访问令牌，必要时通过缓存的刷新令牌刷新
func (p *TokenProvider) Token(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.cached.Valid() {
		return p.cached, nil
	}

	refreshToken, err := p.loadRefreshToken()
	if err != nil {
		return nil, err
	}

	src := p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	// 服务端可能轮换刷新令牌，轮换后旧令牌会失效
	if tok.RefreshToken != "" && tok.RefreshToken != refreshToken {
		if err := p.persistRefreshToken(tok.RefreshToken); err != nil {
			return nil, err
		}
	}

	p.cached = tok
	return tok, nil
}

func (p *TokenProvider) loadRefreshToken() (string, error) {
	data, err := os.ReadFile(p.file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoRefreshToken
		}
		return "", fmt.Errorf("failed to read refresh token file: %w", err)
	}

	refreshToken := strings.TrimSpace(string(data))
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}
	return refreshToken, nil
}

func (p *TokenProvider) persistRefreshToken(refreshToken string) error {
	if err := os.WriteFile(p.file, []byte(refreshToken), 0600); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return nil
}
