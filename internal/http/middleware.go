package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"visioncheck/internal/domain"
	"visioncheck/internal/service"

	"go.uber.org/zap"
)

// 会话 cookie 名称（前端同名读取）
const (
	AccessTokenCookie  = "vc_access_token"
	RefreshTokenCookie = "vc_refresh_token"
)

// LegacySignInPath 旧版登录路径：无条件重定向到规范路径
const LegacySignInPath = "/login"

type contextKey string

const userContextKey contextKey = "visioncheck.user"

// UserFromContext 取出随请求传递的当前用户
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok && user != nil
}

// WithUser 把用户放进请求上下文（AuthGate 与单测用）
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// AuthGate 认证前置：每个请求先解析托管会话
// - 允许清单内的路径前缀直接放行
// - 其余路径无用户时：页面 302 到登录页，/api/ 返回 401 JSON
type AuthGate struct {
	auth          *service.AuthService
	allowPrefixes []string
	signInPath    string
	logger        *zap.Logger
}

func NewAuthGate(auth *service.AuthService, signInPath string, logger *zap.Logger) *AuthGate {
	return &AuthGate{
		auth: auth,
		allowPrefixes: []string{
			"/auth/",
			"/healthz",
			"/static/",
			"/favicon.ico",
		},
		signInPath: signInPath,
		logger:     logger,
	}
}

// Middleware 包装下游 Handler
func (g *AuthGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// 旧版路径别名：无条件跳转
		if path == LegacySignInPath {
			http.Redirect(w, r, g.signInPath, http.StatusFound)
			return
		}

		if g.allowed(path) {
			next.ServeHTTP(w, r)
			return
		}

		user := g.resolveSession(w, r)
		if user == nil {
			if strings.HasPrefix(path, "/api/") {
				failJSON(w, http.StatusUnauthorized, "sign-in required")
			} else {
				http.Redirect(w, r, g.signInPath, http.StatusFound)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (g *AuthGate) allowed(path string) bool {
	for _, prefix := range g.allowPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// resolveSession 解析当前会话；access token 失效时尝试用 refresh token 换新并重写 cookie
func (g *AuthGate) resolveSession(w http.ResponseWriter, r *http.Request) *domain.User {
	ctx := r.Context()
	accessToken, refreshToken := extractTokens(r)
	if accessToken == "" && refreshToken == "" {
		return nil
	}

	if accessToken != "" {
		user, err := g.auth.ResolveUser(ctx, accessToken)
		if err == nil {
			return user
		}
		if !errors.Is(err, service.ErrUnauthorized) {
			// 身份服务不可用：按未登录处理，不放行
			g.logger.Error("Session resolution failed", zap.Error(err))
			return nil
		}
	}

	if refreshToken == "" {
		return nil
	}

	session, err := g.auth.Refresh(ctx, refreshToken)
	if err != nil {
		if !errors.Is(err, service.ErrUnauthorized) {
			g.logger.Error("Session refresh failed", zap.Error(err))
		}
		return nil
	}

	setSessionCookies(w, session)

	if session.User != nil {
		return session.User
	}
	user, err := g.auth.ResolveUser(ctx, session.AccessToken)
	if err != nil {
		return nil
	}
	return user
}

// extractTokens cookie 优先，Authorization: Bearer 兜底（fetch 调用方用）
func extractTokens(r *http.Request) (accessToken, refreshToken string) {
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		accessToken = c.Value
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = c.Value
	}
	if accessToken == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			accessToken = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return accessToken, refreshToken
}

func setSessionCookies(w http.ResponseWriter, session *domain.Session) {
	maxAge := session.ExpiresIn
	if maxAge <= 0 {
		maxAge = 3600
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if session.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     RefreshTokenCookie,
			Value:    session.RefreshToken,
			Path:     "/",
			MaxAge:   int((30 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// RequestLogger 访问日志中间件
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(started)),
			)
		})
	}
}
