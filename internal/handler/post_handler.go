package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kampusconnect.id/forum/internal/service"
	"kampusconnect.id/forum/pkg/apperror"
	"kampusconnect.id/forum/pkg/response"
	"kampusconnect.id/forum/pkg/validator"
)

type PostHandler struct {
	posts    service.PostService
	profiles service.ProfileService
}

func NewPostHandler(posts service.PostService, profiles service.ProfileService) *PostHandler {
	return &PostHandler{posts: posts, profiles: profiles}
}

func (h *PostHandler) Create(c *gin.Context) {
	var input service.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	author, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), author, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) List(c *gin.Context) {
	filters := service.PostFilters{
		Type:     c.Query("type"),
		Topic:    c.Query("topic"),
		AuthorID: c.Query("authorId"),
	}

	posts, err := h.posts.List(c.Request.Context(), filters)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (h *PostHandler) GetByID(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	var input service.UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.posts.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
