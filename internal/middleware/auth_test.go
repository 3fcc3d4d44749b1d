package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fitcore/gym-backend/internal/config"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/testutil"
	"github.com/fitcore/gym-backend/internal/tokens"
)

func signToken(t *testing.T, secret, role, jti string, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":      "user-1",
		"username": "tester",
		"role":     role,
		"jti":      jti,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func protectedRouter(cfg *config.Config, blacklist tokens.Blacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin", AuthMiddleware(cfg, blacklist), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})
	return r
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	r := protectedRouter(cfg, nil)

	future := time.Now().Add(time.Hour)

	t.Run("missing header", func(t *testing.T) {
		if w := request(r, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		if w := request(r, "Token abc"); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("bad signature", func(t *testing.T) {
		token := signToken(t, "other-secret", models.RoleAdmin, "jti-1", future)
		if w := request(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, models.RoleAdmin, "jti-2", time.Now().Add(-time.Minute))
		if w := request(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("valid admin token", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, models.RoleAdmin, "jti-3", future)
		if w := request(r, "Bearer "+token); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, models.RoleMember, "jti-4", future)
		if w := request(r, "Bearer "+token); w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})
}

func TestAuthMiddlewareBlacklist(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	blacklist := testutil.NewMemoryBlacklist()
	r := protectedRouter(cfg, blacklist)

	future := time.Now().Add(time.Hour)
	token := signToken(t, cfg.JWTSecret, models.RoleAdmin, "revoked-jti", future)

	if w := request(r, "Bearer "+token); w.Code != http.StatusOK {
		t.Fatalf("pre-revocation status = %d, want 200", w.Code)
	}

	if err := blacklist.Revoke(context.Background(), "revoked-jti", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if w := request(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("post-revocation status = %d, want 401", w.Code)
	}
}
