package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/admin", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newAuthTestRouter()

	token, err := GenerateToken(42, "alice@example.com", "user", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		cookie     string
		wantStatus int
	}{
		{"Bearer Header", "Bearer " + token, "", http.StatusOK},
		{"Cookie", "", token, http.StatusOK},
		{"无凭证", "", "", http.StatusUnauthorized},
		{"伪造 Token", "Bearer invalid.token.here", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("状态码 = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newAuthTestRouter()

	userToken, _ := GenerateToken(1, "user@example.com", "user", testSecret, time.Hour)
	adminToken, _ := GenerateToken(2, "admin@example.com", "admin", testSecret, time.Hour)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"普通用户被拒绝", userToken, http.StatusForbidden},
		{"管理员放行", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("状态码 = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	r := newAuthTestRouter()

	expired, err := GenerateToken(1, "user@example.com", "user", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("过期 Token 状态码 = %d, want 401", w.Code)
	}
}
