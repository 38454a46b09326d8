package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"litfund-backend/services"
	"litfund-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SubmissionController struct {
	Service *services.SubmissionService
}

func NewSubmissionController(service *services.SubmissionService) *SubmissionController {
	return &SubmissionController{Service: service}
}

type createSubmissionPayload struct {
	FormType string         `json:"form_type" binding:"required"`
	Data     map[string]any `json:"data" binding:"required"`
}

type markReadPayload struct {
	Read *bool `json:"read" binding:"required"`
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// Create handles the public lead-capture forms.
func (sc *SubmissionController) Create(c *gin.Context) {
	var payload createSubmissionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "form_type and data are required")
		return
	}

	sub, err := sc.Service.Create(c.Request.Context(), payload.FormType, payload.Data)
	if err != nil {
		if errors.Is(err, services.ErrEmptySubmission) {
			utils.JSONError(c, http.StatusBadRequest, "submission has no data")
			return
		}
		logrus.WithError(err).Error("failed to store submission")
		utils.JSONError(c, http.StatusInternalServerError, "could not save submission")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sub)
}

func (sc *SubmissionController) GetAll(c *gin.Context) {
	subs, err := sc.Service.GetAll(c.Query("form_type"), c.Query("unread") == "true")
	if err != nil {
		logrus.WithError(err).Error("failed to list submissions")
		utils.JSONError(c, http.StatusInternalServerError, "could not list submissions")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, subs)
}

func (sc *SubmissionController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	sub, err := sc.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "submission not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not load submission")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sub)
}

func (sc *SubmissionController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload markReadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "read flag required")
		return
	}
	if err := sc.Service.MarkRead(id, *payload.Read); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "submission not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not update submission")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "read": *payload.Read})
}

func (sc *SubmissionController) Counts(c *gin.Context) {
	counts, err := sc.Service.Counts()
	if err != nil {
		logrus.WithError(err).Error("failed to count submissions")
		utils.JSONError(c, http.StatusInternalServerError, "could not load counts")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, counts)
}

// Delete moves a submission to trash.
func (sc *SubmissionController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := sc.Service.SoftDelete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "submission not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not delete submission")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "trashed": true})
}

func (sc *SubmissionController) Restore(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := sc.Service.Restore(id); err != nil {
		if errors.Is(err, services.ErrNotTrashed) {
			utils.JSONError(c, http.StatusConflict, "submission is not in trash")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not restore submission")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "restored": true})
}

func (sc *SubmissionController) ListTrash(c *gin.Context) {
	subs, err := sc.Service.ListTrash(services.ParseTrashFilter(c.Query("window")))
	if err != nil {
		logrus.WithError(err).Error("failed to list submission trash")
		utils.JSONError(c, http.StatusInternalServerError, "could not list trash")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, subs)
}

// PermanentlyDelete is irreversible and requires confirm=true so a stray
// call cannot empty the trash by accident.
func (sc *SubmissionController) PermanentlyDelete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if c.Query("confirm") != "true" {
		utils.JSONError(c, http.StatusBadRequest, "permanent deletion requires confirm=true")
		return
	}
	if err := sc.Service.PermanentlyDelete(id); err != nil {
		if errors.Is(err, services.ErrNotTrashed) {
			utils.JSONError(c, http.StatusConflict, "submission is not in trash")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not delete submission")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
