package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"litfund-backend/services"
	"litfund-backend/utils"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Service *services.ContentService
}

func NewContentController(service *services.ContentService) *ContentController {
	return &ContentController{Service: service}
}

type contentPayload struct {
	Content json.RawMessage `json:"content" binding:"required"`
}

func (cc *ContentController) GetSection(c *gin.Context) {
	content, err := cc.Service.GetSection(c.Param("section"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "section not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not load content")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, content)
}

func (cc *ContentController) ListSections(c *gin.Context) {
	sections, err := cc.Service.ListSections()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not list content")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sections)
}

func (cc *ContentController) Upsert(c *gin.Context) {
	var payload contentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "content is required")
		return
	}
	content, err := cc.Service.Upsert(c.Param("section"), payload.Content)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not save content")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, content)
}
