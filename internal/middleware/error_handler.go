package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"tour_chat/pkg/errors"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем есть ли ошибки
		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			// APIError сам знает свой статус
			var apiErr *errors.APIError
			if stderrors.As(err.Err, &apiErr) {
				c.JSON(apiErr.Code, apiErr)
				return
			}

			statusCode := errors.HTTPStatusFromError(err.Err)

			c.JSON(statusCode, gin.H{
				"error": err.Error(),
			})
		}
	}
}
