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

type TestimonialController struct {
	Service *services.TestimonialService
}

func NewTestimonialController(service *services.TestimonialService) *TestimonialController {
	return &TestimonialController{Service: service}
}

type testimonialPayload struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerRole    string `json:"customer_role"`
	CustomerCompany string `json:"customer_company"`
	TestimonialText string `json:"testimonial_text" binding:"required"`
	Rating          int    `json:"rating" binding:"required,min=1,max=5"`
	CustomerImage   string `json:"customer_image"`
	Published       bool   `json:"published"`
	Featured        bool   `json:"featured"`
	DisplayOrder    int    `json:"display_order"`
}

type flagPayload struct {
	Value *bool `json:"value" binding:"required"`
}

type orderPayload struct {
	DisplayOrder *int `json:"display_order" binding:"required"`
}

// GetPublished serves the public site.
func (tc *TestimonialController) GetPublished(c *gin.Context) {
	items, err := tc.Service.GetPublished()
	if err != nil {
		logrus.WithError(err).Error("failed to list published testimonials")
		utils.JSONError(c, http.StatusInternalServerError, "could not list testimonials")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

func (tc *TestimonialController) GetAll(c *gin.Context) {
	items, err := tc.Service.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not list testimonials")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

func (tc *TestimonialController) Create(c *gin.Context) {
	var payload testimonialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "customer_name, testimonial_text and a 1-5 rating are required")
		return
	}

	t := models.Testimonial{
		CustomerName:    payload.CustomerName,
		CustomerRole:    payload.CustomerRole,
		CustomerCompany: payload.CustomerCompany,
		TestimonialText: payload.TestimonialText,
		Rating:          payload.Rating,
		CustomerImage:   payload.CustomerImage,
		Published:       payload.Published,
		Featured:        payload.Featured,
		DisplayOrder:    payload.DisplayOrder,
	}
	if err := tc.Service.Create(&t); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not create testimonial")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, t)
}

func (tc *TestimonialController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload testimonialPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "customer_name, testimonial_text and a 1-5 rating are required")
		return
	}

	t := models.Testimonial{
		ID:              id,
		CustomerName:    payload.CustomerName,
		CustomerRole:    payload.CustomerRole,
		CustomerCompany: payload.CustomerCompany,
		TestimonialText: payload.TestimonialText,
		Rating:          payload.Rating,
		CustomerImage:   payload.CustomerImage,
		Published:       payload.Published,
		Featured:        payload.Featured,
		DisplayOrder:    payload.DisplayOrder,
	}
	if err := tc.Service.Update(&t); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "testimonial not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not update testimonial")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "updated": true})
}

func (tc *TestimonialController) SetPublished(c *gin.Context) {
	tc.setFlag(c, tc.Service.SetPublished)
}

func (tc *TestimonialController) SetFeatured(c *gin.Context) {
	tc.setFlag(c, tc.Service.SetFeatured)
}

func (tc *TestimonialController) setFlag(c *gin.Context, set func(uint, bool) error) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload flagPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "value flag required")
		return
	}
	if err := set(id, *payload.Value); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "testimonial not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not update testimonial")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "value": *payload.Value})
}

func (tc *TestimonialController) SetDisplayOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload orderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "display_order required")
		return
	}
	if err := tc.Service.SetDisplayOrder(id, *payload.DisplayOrder); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "testimonial not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not update testimonial")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "display_order": *payload.DisplayOrder})
}

func (tc *TestimonialController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := tc.Service.SoftDelete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "testimonial not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not delete testimonial")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "trashed": true})
}

func (tc *TestimonialController) Restore(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := tc.Service.Restore(id); err != nil {
		if errors.Is(err, services.ErrNotTrashed) {
			utils.JSONError(c, http.StatusConflict, "testimonial is not in trash")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not restore testimonial")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "restored": true})
}

func (tc *TestimonialController) ListTrash(c *gin.Context) {
	items, err := tc.Service.ListTrash(services.ParseTrashFilter(c.Query("window")))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not list trash")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

func (tc *TestimonialController) PermanentlyDelete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if c.Query("confirm") != "true" {
		utils.JSONError(c, http.StatusBadRequest, "permanent deletion requires confirm=true")
		return
	}
	if err := tc.Service.PermanentlyDelete(id); err != nil {
		if errors.Is(err, services.ErrNotTrashed) {
			utils.JSONError(c, http.StatusConflict, "testimonial is not in trash")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not delete testimonial")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
