package domain

// User 托管身份服务返回的用户信息
type User struct {
	ID           string `json:"id"`    // UUID
	Email        string `json:"email"`
	Role         string `json:"role"`
	LastSignInAt string `json:"last_sign_in_at"` // RFC3339（身份服务原样返回）
}

// Session 托管身份服务的会话（access/refresh token 对）
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // 秒
	User         *User  `json:"user,omitempty"`
}
