package controllers

import (
	"errors"
	"net/http"

	"litfund-backend/services"
	"litfund-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	Reset    *services.PasswordResetService
	Admins   *services.AdminService
	Provider services.IdentityProvider
}

func NewAuthController(reset *services.PasswordResetService, admins *services.AdminService, provider services.IdentityProvider) *AuthController {
	return &AuthController{Reset: reset, Admins: admins, Provider: provider}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sendResetPayload struct {
	Email   string `json:"email" binding:"required,email"`
	SiteURL string `json:"siteUrl"`
}

type verifyResetPayload struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Login is a thin wrapper over the identity provider's password grant, plus
// an allow-list check so an ordinary account never gets an admin session.
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	email := services.NormalizeEmail(payload.Email)
	accessToken, user, err := ac.Provider.SignIn(c.Request.Context(), email, payload.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	isAdmin, err := ac.Admins.IsAdmin(user.ID)
	if err != nil {
		logrus.WithError(err).Error("allow-list lookup failed during login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": accessToken,
		"admin": gin.H{"id": user.ID, "email": user.Email},
	})
}

// SendPasswordReset always answers with the same success shape whether or
// not the email belongs to an admin, except when delivery itself fails.
func (ac *AuthController) SendPasswordReset(c *gin.Context) {
	var payload sendResetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
		return
	}

	siteURL := payload.SiteURL
	if siteURL == "" {
		siteURL = "https://" + c.Request.Host
	}

	err := ac.Reset.RequestReset(c.Request.Context(), payload.Email, siteURL)
	switch {
	case err == nil:
		utils.JSONMessage(c, http.StatusOK, "If this email exists, a reset link was sent.")
	case errors.Is(err, services.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
	case errors.Is(err, services.ErrMailSend):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not send reset email, try again later"})
	default:
		logrus.WithError(err).Error("password reset request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

func (ac *AuthController) VerifyResetToken(c *gin.Context) {
	var payload verifyResetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and newPassword required"})
		return
	}

	err := ac.Reset.VerifyReset(c.Request.Context(), payload.Token, payload.NewPassword)
	switch {
	case err == nil:
		utils.JSONMessage(c, http.StatusOK, "Password updated. You can now sign in.")
	case errors.Is(err, services.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrPasswordTooShort.Error()})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrTokenExpired.Error()})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidToken.Error()})
	default:
		logrus.WithError(err).Error("password reset verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
