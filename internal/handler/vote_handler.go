package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/service"
	"kampusconnect.id/forum/pkg/response"
	"kampusconnect.id/forum/pkg/validator"
)

type VoteHandler struct {
	votes service.VoteService
}

func NewVoteHandler(votes service.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteRequest struct {
	Reaction string `json:"reaction" binding:"required,oneof=like dislike"`
}

// Toggle flips the caller's reaction on a post and returns the updated post
// so the client can render the new counts without a refetch.
func (h *VoteHandler) Toggle(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	post, err := h.votes.Toggle(c.Request.Context(), userID, c.Param("id"), model.Reaction(req.Reaction))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
