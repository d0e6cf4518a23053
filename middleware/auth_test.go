package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/config"
	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/ZaneerahEssop/QUANTIX-sub001/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testAuth = &config.AuthConfig{
		JWTSecret:        "test-secret-key",
		TokenExpireHours: 24,
	}
	testPlanner = &config.User{
		ID:          "u-planner",
		Username:    "jane",
		DisplayName: "Jane Doe",
		Role:        "planner",
	}
)

func signClaims(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testAuth.JWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return s
}

func TestGenerateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken(testPlanner, testAuth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("Expected non-empty token")
	}

	expectedExpiry := time.Now().Add(24 * time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("Expiry time %v is not within expected range of %v", expiresAt, expectedExpiry)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testAuth.JWTSecret), nil
	}); err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if claims.UserID != "u-planner" || claims.Role != "planner" || claims.Subject != "jane" {
		t.Errorf("Unexpected claims %+v", claims)
	}
}

func TestAuthMiddleware(t *testing.T) {
	token, _, err := GenerateToken(testPlanner, testAuth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	noRole := signClaims(t, Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer " + token,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid format",
			authHeader:     token, // Missing "Bearer "
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "token without role",
			authHeader:     "Bearer " + noRole,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthMiddleware(testAuth))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "ok"})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	token, _, _ := GenerateToken(testPlanner, testAuth)

	router := gin.New()
	router.Use(AuthMiddleware(testAuth))
	router.GET("/test", func(c *gin.Context) {
		id := GetIdentity(c)
		role, _ := c.Request.Context().Value(logger.RoleKey).(string)
		c.JSON(http.StatusOK, gin.H{"user": id.UserID, "name": id.DisplayName, "role": id.Role, "ctx_role": role})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	for _, want := range []string{`"user":"u-planner"`, `"name":"Jane Doe"`, `"role":"planner"`, `"ctx_role":"planner"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s in %s", want, body)
		}
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	tokenString := signClaims(t, Claims{
		UserID: "u-planner",
		Role:   "planner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)), // Expired 1 hour ago
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	})

	router := gin.New()
	router.Use(AuthMiddleware(testAuth))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d for expired token, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddlewareWrongSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u", Role: "planner"})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	router := gin.New()
	router.Use(AuthMiddleware(testAuth))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for unsigned token, got %d", w.Code)
	}
}

func TestGetIdentityEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id := GetIdentity(c)
	if id.UserID != "" || id.Role != "" {
		t.Errorf("Expected empty identity, got %+v", id)
	}

	c.Set("role", "vendor")
	if GetIdentity(c).Role != model.RoleVendor {
		t.Errorf("Expected role vendor, got '%s'", GetIdentity(c).Role)
	}
}
