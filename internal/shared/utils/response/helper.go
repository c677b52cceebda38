package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// AbortJSON writes an error envelope and stops the handler chain. Used by
// middleware so failed auth checks all surface the same shape.
func AbortJSON(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, StandardApiResponse{
		Status:     "error",
		StatusCode: code,
		Message:    message,
	})
}
