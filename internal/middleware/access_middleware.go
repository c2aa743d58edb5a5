package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/auth"
	"github.com/emre/coursehub/internal/app/models/dto"
	pkgauth "github.com/emre/coursehub/internal/pkg/auth"
)

// AccessMiddleware enforces the configured access policy on every route
type AccessMiddleware struct {
	policy auth.AccessPolicy
}

// NewAccessMiddleware creates a new AccessMiddleware
func NewAccessMiddleware(policy auth.AccessPolicy) *AccessMiddleware {
	return &AccessMiddleware{policy: policy}
}

// Enforce applies the access policy. With the default allow-all policy
// this is a no-op passthrough.
func (m *AccessMiddleware) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.policy.Authorize(c.Request); err != nil {
			code := dto.ErrorCodeUnauthorized
			message := "Authentication required"
			if errors.Is(err, pkgauth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				message = "Token has expired"
			} else if errors.Is(err, pkgauth.ErrInvalidToken) {
				code = dto.ErrorCodeInvalidToken
				message = "Invalid token"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
			return
		}

		c.Next()
	}
}
