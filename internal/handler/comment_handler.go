package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kampusconnect.id/forum/internal/service"
	"kampusconnect.id/forum/pkg/apperror"
	"kampusconnect.id/forum/pkg/response"
	"kampusconnect.id/forum/pkg/validator"
)

type CommentHandler struct {
	comments service.CommentService
	profiles service.ProfileService
}

func NewCommentHandler(comments service.CommentService, profiles service.ProfileService) *CommentHandler {
	return &CommentHandler{comments: comments, profiles: profiles}
}

func (h *CommentHandler) Create(c *gin.Context) {
	var input service.CreateCommentInput
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

	comment, err := h.comments.Create(c.Request.Context(), author, c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	comments, err := h.comments.ListByPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (h *CommentHandler) Update(c *gin.Context) {
	var input service.UpdateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), userID, c.Param("commentId"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.comments.Delete(c.Request.Context(), userID, c.Param("commentId")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
