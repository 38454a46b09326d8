package controllers

import (
	"errors"
	"net/http"

	"litfund-backend/models"
	"litfund-backend/services"
	"litfund-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminController manages the allow-list and the manual trash sweep.
type AdminController struct {
	Admins *services.AdminService
	Trash  *services.TrashService
	Reset  *services.PasswordResetService
}

func NewAdminController(
	admins *services.AdminService,
	trash *services.TrashService,
	reset *services.PasswordResetService,
) *AdminController {
	return &AdminController{Admins: admins, Trash: trash, Reset: reset}
}

type grantAdminPayload struct {
	Email           string `json:"email" binding:"required,email"`
	InitialPassword string `json:"initial_password"`
}

func (ac *AdminController) List(c *gin.Context) {
	admins, err := ac.Admins.List()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not list admins")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admins)
}

func (ac *AdminController) Grant(c *gin.Context) {
	var payload grantAdminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "a valid email is required")
		return
	}

	admin, err := ac.Admins.Grant(c.Request.Context(), payload.Email, payload.InitialPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyAdmin):
			utils.JSONError(c, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrNoIdentityAccount):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		default:
			logrus.WithError(err).Error("admin grant failed")
			utils.JSONError(c, http.StatusInternalServerError, "could not grant admin access")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, admin)
}

func (ac *AdminController) Revoke(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	deleteAccount := c.Query("delete_account") == "true"
	if err := ac.Admins.Revoke(c.Request.Context(), id, deleteAccount); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "admin entry not found")
			return
		}
		logrus.WithError(err).Error("admin revoke failed")
		utils.JSONError(c, http.StatusInternalServerError, "could not revoke admin access")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "revoked": true})
}

// PurgeTrash is the manual trigger for the retention sweep; the same sweep
// runs daily from cron.
func (ac *AdminController) PurgeTrash(c *gin.Context) {
	subs, err := ac.Trash.PurgeExpired(&models.FormSubmission{})
	if err != nil {
		logrus.WithError(err).Error("submission purge failed")
		utils.JSONError(c, http.StatusInternalServerError, "purge failed")
		return
	}
	tests, err := ac.Trash.PurgeExpired(&models.Testimonial{})
	if err != nil {
		logrus.WithError(err).Error("testimonial purge failed")
		utils.JSONError(c, http.StatusInternalServerError, "purge failed")
		return
	}
	tokens, err := ac.Reset.CleanupStale(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("reset token cleanup failed")
		utils.JSONError(c, http.StatusInternalServerError, "purge failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"submissions_purged":  subs,
		"testimonials_purged": tests,
		"tokens_cleaned":      tokens,
	})
}
