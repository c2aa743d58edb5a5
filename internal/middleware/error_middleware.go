package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/models/dto"
	"github.com/emre/coursehub/internal/pkg/apperrors"
)

// HandleAPIError translates domain errors into the HTTP status contract:
// 400 for validation failures, 404 for absent lookups, 409 for uniqueness
// conflicts (pre-checked or store-detected), 500 otherwise.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.IsConflict(err):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error()),
		})
	case apperrors.IsNotFound(err):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})
	case errors.Is(err, apperrors.ErrInvalidEmail):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidEmail, err.Error()),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Permission denied"),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
