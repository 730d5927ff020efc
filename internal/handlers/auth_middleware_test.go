package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/services"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, userID uint, role models.UserRole) string {
	t.Helper()

	now := time.Now()
	claims := services.Claims{
		UserID: userID,
		Role:   role,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func newAuthTestRouter(requiredRoles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)

	am := NewJWTAuthMiddleware(testSecret, "detector-secret")
	router := gin.New()

	protected := router.Group("", am.AuthMiddleware())
	if len(requiredRoles) > 0 {
		protected.Use(am.RequireRoleMiddleware(requiredRoles...))
	}
	protected.GET("/protected", func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"user_id": principal.ID, "role": principal.Role})
	})

	router.POST("/detector", am.DetectorAuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	return router
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "", http.StatusOK}, // header filled in below
	}

	router := newAuthTestRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.name == "valid token" {
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 7, models.RoleStudent))
			} else if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body)
			}
		})
	}

	t.Run("token signed with another secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other"), 7, models.RoleStudent))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	router := newAuthTestRouter(models.RoleProctor)

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 1, models.RoleProctor))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", w.Code, w.Body)
		}
	})

	t.Run("student is refused on a proctor route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 2, models.RoleStudent))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d: %s", w.Code, w.Body)
		}
	})
}

func TestDetectorAuthMiddleware(t *testing.T) {
	t.Run("correct credential passes", func(t *testing.T) {
		router := newAuthTestRouter()
		req := httptest.NewRequest(http.MethodPost, "/detector", nil)
		req.Header.Set("X-Detector-Token", "detector-secret")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Errorf("expected 201, got %d: %s", w.Code, w.Body)
		}
	})

	t.Run("wrong or missing credential is refused", func(t *testing.T) {
		router := newAuthTestRouter()
		for _, token := range []string{"", "wrong"} {
			req := httptest.NewRequest(http.MethodPost, "/detector", nil)
			if token != "" {
				req.Header.Set("X-Detector-Token", token)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("token %q: expected 401, got %d", token, w.Code)
			}
		}
	})

	t.Run("unset credential refuses everything", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		am := NewJWTAuthMiddleware(testSecret, "")
		router := gin.New()
		router.POST("/detector", am.DetectorAuthMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})

		req := httptest.NewRequest(http.MethodPost, "/detector", nil)
		req.Header.Set("X-Detector-Token", "")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 when no credential is configured, got %d", w.Code)
		}
	})
}
