package response

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kampusconnect.id/forum/pkg/apperror"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	uid, ok := userID.(string)
	if !ok || uid == "" {
		return "", apperror.ErrUnauthorized
	}

	return uid, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	var rateLimited *apperror.RateLimitError
	if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
		seconds := int64(rateLimited.RetryAfter / time.Second)
		if rateLimited.RetryAfter%time.Second != 0 {
			seconds++
		}
		c.Header("Retry-After", strconv.FormatInt(seconds, 10))
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
