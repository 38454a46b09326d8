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

type BlogController struct {
	Service *services.BlogService
}

func NewBlogController(service *services.BlogService) *BlogController {
	return &BlogController{Service: service}
}

type blogPostPayload struct {
	Title           string `json:"title" binding:"required"`
	Slug            string `json:"slug"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"`
	CoverImage      string `json:"cover_image"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Published       bool   `json:"published"`
}

func (bc *BlogController) GetPublished(c *gin.Context) {
	posts, err := bc.Service.GetPublished()
	if err != nil {
		logrus.WithError(err).Error("failed to list published posts")
		utils.JSONError(c, http.StatusInternalServerError, "could not list posts")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, posts)
}

func (bc *BlogController) GetBySlug(c *gin.Context) {
	post, err := bc.Service.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "post not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not load post")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, post)
}

func (bc *BlogController) GetAll(c *gin.Context) {
	posts, err := bc.Service.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not list posts")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, posts)
}

func (bc *BlogController) Create(c *gin.Context) {
	var payload blogPostPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "title is required")
		return
	}

	post := models.BlogPost{
		Title:           payload.Title,
		Slug:            payload.Slug,
		Excerpt:         payload.Excerpt,
		Content:         payload.Content,
		CoverImage:      payload.CoverImage,
		MetaTitle:       payload.MetaTitle,
		MetaDescription: payload.MetaDescription,
		Published:       payload.Published,
	}
	if err := bc.Service.Create(&post); err != nil {
		if errors.Is(err, services.ErrSlugTaken) {
			utils.JSONError(c, http.StatusConflict, "a post with this slug already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not create post")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, post)
}

func (bc *BlogController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload blogPostPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "title is required")
		return
	}

	post := models.BlogPost{
		ID:              id,
		Title:           payload.Title,
		Slug:            payload.Slug,
		Excerpt:         payload.Excerpt,
		Content:         payload.Content,
		CoverImage:      payload.CoverImage,
		MetaTitle:       payload.MetaTitle,
		MetaDescription: payload.MetaDescription,
		Published:       payload.Published,
	}
	if err := bc.Service.Update(&post); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, "post not found")
		case errors.Is(err, services.ErrSlugTaken):
			utils.JSONError(c, http.StatusConflict, "a post with this slug already exists")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "could not update post")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "updated": true})
}

func (bc *BlogController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := bc.Service.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "post not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not delete post")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
