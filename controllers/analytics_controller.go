package controllers

import (
	"net/http"
	"strconv"

	"litfund-backend/models"
	"litfund-backend/services"
	"litfund-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalyticsController struct {
	Service *services.AnalyticsService
}

func NewAnalyticsController(service *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: service}
}

type pageViewPayload struct {
	Path      string `json:"path" binding:"required"`
	Referrer  string `json:"referrer"`
	VisitorID string `json:"visitor_id"`
}

// Record is the public pageview beacon.
func (ac *AnalyticsController) Record(c *gin.Context) {
	var payload pageViewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "path is required")
		return
	}

	view := models.PageView{
		Path:      payload.Path,
		Referrer:  payload.Referrer,
		UserAgent: c.Request.UserAgent(),
		VisitorID: payload.VisitorID,
	}
	if err := ac.Service.Record(&view); err != nil {
		logrus.WithError(err).Error("failed to record pageview")
		utils.JSONError(c, http.StatusInternalServerError, "could not record pageview")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"visitor_id": view.VisitorID})
}

func (ac *AnalyticsController) Stats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	stats, err := ac.Service.Stats(days)
	if err != nil {
		logrus.WithError(err).Error("failed to build analytics stats")
		utils.JSONError(c, http.StatusInternalServerError, "could not load stats")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
