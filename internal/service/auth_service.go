package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"visioncheck/internal/domain"
	"visioncheck/internal/store"

	"go.uber.org/zap"
)

// AuthService 会话解析：KV 缓存 → 身份服务
// 替代原先的全局会话客户端：用户对象随请求上下文显式传递
type AuthService struct {
	idp      *IdentityClient
	kv       store.KV
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(idp *IdentityClient, kv store.KV, cacheTTL time.Duration, logger *zap.Logger) *AuthService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &AuthService{
		idp:      idp,
		kv:       kv,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ResolveUser 解析 access token 对应的用户
// 缓存键为 token 的 SHA-256（KV 中不落原始 token）
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	key := sessionCacheKey(accessToken)
	if cached, err := s.kv.Get(ctx, key); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil && user.ID != "" {
			return &user, nil
		}
		// 缓存内容损坏：删掉走身份服务
		_ = s.kv.Del(ctx, key)
	} else if err != store.ErrMiss {
		// KV 故障不阻断请求，直接回源
		s.logger.Warn("Session cache unavailable", zap.Error(err))
	}

	user, err := s.idp.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		if err := s.kv.Set(ctx, key, string(data), s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache session", zap.Error(err))
		}
	}
	return user, nil
}

// Refresh 用 refresh token 换取新会话并预热缓存
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.idp.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if session.User != nil {
		if data, err := json.Marshal(session.User); err == nil {
			_ = s.kv.Set(ctx, sessionCacheKey(session.AccessToken), string(data), s.cacheTTL)
		}
	}
	return session, nil
}

func sessionCacheKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "session:" + hex.EncodeToString(sum[:])
}
