package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"visioncheck/internal/domain"
	"visioncheck/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newFakeIdentityProvider 模拟托管身份服务
// access token "valid-token" / refresh token "valid-refresh" 被接受
func newFakeIdentityProvider(t *testing.T, userCalls *int32) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if userCalls != nil {
			atomic.AddInt32(userCalls, 1)
		}
		assert.Equal(t, "test-anon-key", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid token"})
			return
		}
		_ = json.NewEncoder(w).Encode(domain.User{ID: "user-1", Email: "pat@example.com", Role: "authenticated"})
	})
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Query().Get("grant_type") != "refresh_token" || body["refresh_token"] != "valid-refresh" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid refresh token"})
			return
		}
		_ = json.NewEncoder(w).Encode(domain.Session{
			AccessToken:  "valid-token",
			RefreshToken: "rotated-refresh",
			ExpiresIn:    3600,
			User:         &domain.User{ID: "user-1", Email: "pat@example.com"},
		})
	})
	return httptest.NewServer(mux)
}

func newTestAuthService(t *testing.T, userCalls *int32) (*AuthService, *httptest.Server) {
	srv := newFakeIdentityProvider(t, userCalls)
	idp := NewIdentityClient(srv.URL, "test-anon-key", zap.NewNop())
	auth := NewAuthService(idp, store.NewMemoryKV(), time.Minute, zap.NewNop())
	return auth, srv
}

func TestResolveUser_Success(t *testing.T) {
	auth, srv := newTestAuthService(t, nil)
	defer srv.Close()

	user, err := auth.ResolveUser(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "pat@example.com", user.Email)
}

func TestResolveUser_CachesLookups(t *testing.T) {
	var userCalls int32
	auth, srv := newTestAuthService(t, &userCalls)
	defer srv.Close()

	for i := 0; i < 5; i++ {
		_, err := auth.ResolveUser(context.Background(), "valid-token")
		require.NoError(t, err)
	}
	// 第一次回源，其余命中缓存
	assert.Equal(t, int32(1), atomic.LoadInt32(&userCalls))
}

func TestResolveUser_InvalidToken(t *testing.T) {
	auth, srv := newTestAuthService(t, nil)
	defer srv.Close()

	_, err := auth.ResolveUser(context.Background(), "expired-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveUser_EmptyToken(t *testing.T) {
	auth, srv := newTestAuthService(t, nil)
	defer srv.Close()

	_, err := auth.ResolveUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_Success(t *testing.T) {
	var userCalls int32
	auth, srv := newTestAuthService(t, &userCalls)
	defer srv.Close()

	session, err := auth.Refresh(context.Background(), "valid-refresh")
	require.NoError(t, err)
	assert.Equal(t, "valid-token", session.AccessToken)
	assert.Equal(t, "rotated-refresh", session.RefreshToken)
	require.NotNil(t, session.User)
	assert.Equal(t, "user-1", session.User.ID)

	// 刷新应预热缓存：随后的 ResolveUser 不回源
	_, err = auth.ResolveUser(context.Background(), session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&userCalls))
}

func TestRefresh_InvalidToken(t *testing.T) {
	auth, srv := newTestAuthService(t, nil)
	defer srv.Close()

	_, err := auth.Refresh(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
