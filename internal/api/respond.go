package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
)

// respondError maps an error onto the HTTP taxonomy and logs server-side
// failures with their cause, which the client never sees.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"message": apperr.Message(err)})
}
