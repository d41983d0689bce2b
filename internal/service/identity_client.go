package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"visioncheck/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrUnauthorized 身份服务判定 token 无效/过期
var ErrUnauthorized = errors.New("identity provider rejected token")

// identityError 身份服务的错误响应体
type identityError struct {
	Msg       string `json:"msg"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// IdentityClient 托管身份服务 API 客户端
type IdentityClient struct {
	httpClient *resty.Client
	anonKey    string
	logger     *zap.Logger
}

// NewIdentityClient 创建身份服务客户端
// baseURL/anonKey 来自 AUTH_HTTP_ADDRESS / AUTH_ANON_KEY
func NewIdentityClient(baseURL, anonKey string, logger *zap.Logger) *IdentityClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", anonKey)

	return &IdentityClient{
		httpClient: client,
		anonKey:    anonKey,
		logger:     logger,
	}
}

// GetUser 用 access token 获取当前用户
func (c *IdentityClient) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	var user domain.User
	var apiErr identityError

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		SetError(&apiErr).
		Get("/auth/v1/user")

	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return nil, ErrUnauthorized
	}
	if resp.IsError() {
		c.logger.Error("Identity provider returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", apiErr.errorMessage()),
		)
		return nil, fmt.Errorf("identity provider error: %s (status: %d)", apiErr.errorMessage(), resp.StatusCode())
	}
	if user.ID == "" {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// RefreshSession 用 refresh token 换取新会话
func (c *IdentityClient) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	var session domain.Session
	var apiErr identityError

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&session).
		SetError(&apiErr).
		Post("/auth/v1/token")

	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	if resp.StatusCode() == 400 || resp.StatusCode() == 401 {
		return nil, ErrUnauthorized
	}
	if resp.IsError() {
		c.logger.Error("Session refresh failed",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", apiErr.errorMessage()),
		)
		return nil, fmt.Errorf("identity provider error: %s (status: %d)", apiErr.errorMessage(), resp.StatusCode())
	}
	if session.AccessToken == "" {
		return nil, ErrUnauthorized
	}
	return &session, nil
}

func (e *identityError) errorMessage() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Message != "" {
		return e.Message
	}
	return "unknown error"
}
