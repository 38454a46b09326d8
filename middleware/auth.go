package middleware

import (
	"net/http"
	"strings"

	"litfund-backend/services"
	"litfund-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// PrincipalKey is where RequireAdmin stores the authenticated principal in
// the gin context.
const PrincipalKey = "principal"

// Principal is the authenticated identity behind an admin request.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// RequireAdmin validates the identity provider's access token and checks the
// admin allow-list fresh on every request. Enforcement lives here, on the
// route layer over the data operations, not in any frontend navigation.
func RequireAdmin(admins *services.AdminService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}
		sub, _ := claims.GetSubject()
		email, _ := claims["email"].(string)
		if sub == "" {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		isAdmin, err := admins.IsAdmin(sub)
		if err != nil {
			logrus.WithError(err).Error("admin allow-list lookup failed")
			utils.JSONError(c, http.StatusInternalServerError, "authorization check failed")
			c.Abort()
			return
		}
		if !isAdmin {
			utils.JSONError(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}

		c.Set(PrincipalKey, Principal{UserID: sub, Email: email})
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal set by RequireAdmin.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
