package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"litfund-backend/models"
	"litfund-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func newGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AdminUser{}))
	require.NoError(t, db.Create(&models.AdminUser{UserID: "uid-admin", Email: "admin@example.com"}).Error)

	admins := services.NewAdminService(db, nil)

	router := gin.New()
	router.GET("/protected", RequireAdmin(admins, testJWTSecret), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "email": p.Email})
	})
	return router
}

func signToken(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func requestWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdminAllowsListedUser(t *testing.T) {
	router := newGuardedRouter(t)

	token := signToken(t, testJWTSecret, "uid-admin", time.Now().Add(time.Hour))
	rec := requestWithToken(router, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "uid-admin")
}

func TestRequireAdminRejectsMissingHeader(t *testing.T) {
	router := newGuardedRouter(t)

	rec := requestWithToken(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminRejectsBadSignature(t *testing.T) {
	router := newGuardedRouter(t)

	token := signToken(t, "some-other-secret", "uid-admin", time.Now().Add(time.Hour))
	rec := requestWithToken(router, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminRejectsExpiredToken(t *testing.T) {
	router := newGuardedRouter(t)

	token := signToken(t, testJWTSecret, "uid-admin", time.Now().Add(-time.Minute))
	rec := requestWithToken(router, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A valid session token is necessary but not sufficient: the user must also
// be on the allow-list.
func TestRequireAdminRejectsUnlistedUser(t *testing.T) {
	router := newGuardedRouter(t)

	token := signToken(t, testJWTSecret, "uid-stranger", time.Now().Add(time.Hour))
	rec := requestWithToken(router, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin access required")
}
