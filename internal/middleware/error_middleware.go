package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

type errorMapping struct {
	kind    error
	status  int
	code    string
	outcome string
	// message replaces the error text when the cause must not reach the client
	message string
}

var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, apperrors.CodeValidation, "", ""},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, apperrors.CodeNotFound, string(dto.ClaimNotFound), ""},
	{apperrors.ErrConflict, http.StatusConflict, apperrors.CodeConflict, string(dto.ClaimConflict), ""},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.CodeInvalidCredential, string(dto.LoginInvalidCredentials), "invalid email or password"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, apperrors.CodeTokenExpired, "", "token has expired"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, apperrors.CodeTokenInvalid, "", "token has been revoked"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, apperrors.CodeTokenInvalid, "", "invalid token"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, apperrors.CodeForbidden, "", "permission denied"},
	{apperrors.ErrStore, http.StatusInternalServerError, apperrors.CodeStore, "", "internal storage error"},
}

// HandleAPIError writes the error response for err and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetail(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}

		code := apperrors.Code(err)
		if code == "" {
			code = m.code
		}
		message := m.message
		if message == "" {
			message = apperrors.Message(err)
		}
		if message == "" {
			message = m.kind.Error()
		}

		detail := dto.NewErrorDetail(code, message).WithStatus(m.outcome)
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil && m.status < http.StatusInternalServerError {
			detail = detail.WithDetails(ce.Details)
		}
		return m.status, detail
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(apperrors.CodeInternal, "internal server error")
}
