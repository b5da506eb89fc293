package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anime-ringtone/domain/media"
)

// ErrorResponse is the body of every non-2xx API answer
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// respondError maps err to its status and client message and aborts the request.
// The cause is attached to the context for the request logger.
func respondError(c *gin.Context, err error) {
	status, message := media.StatusCode(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{StatusCode: status, Message: message})
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
		StatusCode: http.StatusNotFound,
		Message:    http.StatusText(http.StatusNotFound),
	})
}
