package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"pdv-terminal/internal/usecase"
	"pdv-terminal/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxOperatorIDKey = "operator_id"
	ctxCompanyIDKey  = "company_id"
	ctxRoleKey       = "operator_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		operatorID, companyID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxOperatorIDKey, operatorID)
		c.Set(ctxCompanyIDKey, companyID)
		c.Set(ctxRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"operator_id": operatorID.String(),
			"company_id":  companyID.String(),
			"role":        role,
		})
		c.Next()
	}
}

// GetIdentity returns the authenticated operator/company pair set by
// RequireAuth.
func GetIdentity(c *gin.Context) (commands.Identity, bool) {
	operatorID, exists := c.Get(ctxOperatorIDKey)
	if !exists {
		return commands.Identity{}, false
	}
	companyID, exists := c.Get(ctxCompanyIDKey)
	if !exists {
		return commands.Identity{}, false
	}

	oid, ok := operatorID.(uuid.UUID)
	if !ok {
		return commands.Identity{}, false
	}
	cid, ok := companyID.(uuid.UUID)
	if !ok {
		return commands.Identity{}, false
	}
	return commands.Identity{CompanyID: cid, OperatorID: oid}, true
}

func GetOperatorRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}
