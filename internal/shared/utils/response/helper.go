package response

import (
	"github.com/gin-gonic/gin"

	"github.com/beambyp/EventBud/internal/shared/apperrors"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a domain error onto the standard envelope.
func RespondError(c *gin.Context, err error) {
	RespondJSON(c, "error", apperrors.HTTPStatus(err), err.Error(), nil, gin.H{
		"code": apperrors.StatusCode(err),
	})
}

// RespondSuccess writes a success envelope with the given payload.
func RespondSuccess(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}
