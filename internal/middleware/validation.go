package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// BindJSON decodes the request body into obj. Field rules are checked by the
// services; this only rejects bodies that are not valid JSON for obj.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		detail := dto.NewErrorDetail(apperrors.CodeValidation, "invalid request format").
			WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return false
	}
	return true
}
