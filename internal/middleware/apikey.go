package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
)

// APIKeyAuthMiddleware creates a Gin middleware that authenticates external
// callers by the X-API-Key header. The key is looked up by its SHA-256 hash,
// and the owning user must be on a plan with API access. On success the
// principal is stored in the context exactly as the JWT middleware does.
func APIKeyAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_API_KEY", "message": "Invalid or missing API key"}})
			return
		}

		hash := HashAPIKey(key)
		var user models.User
		if err := db.Where("api_key_hash = ? AND is_active = ?", hash, true).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_API_KEY", "message": "Invalid or missing API key"}})
			return
		}
		// Constant-time re-check of the presented hash against the stored one.
		if user.APIKeyHash == nil || subtle.ConstantTimeCompare([]byte(hash), []byte(*user.APIKeyHash)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_API_KEY", "message": "Invalid or missing API key"}})
			return
		}
		if !plan.HasAPIAccess(user.Plan) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": gin.H{"code": "QUOTA_EXCEEDED", "message": "API access requires an Enterprise plan. Upgrade now."}})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextEmail, user.Email)
		c.Set(ContextPlan, user.Plan)
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}
