package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"notes-service/internal/model"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

const currentUserKey = "current_user"

// Auth returns the middleware guarding protected API routes. It is the sole
// authentication enforcement point: it parses the Bearer token, verifies it,
// resolves the live user record (with tenant preloaded), and injects the
// result into the request context. Handlers never parse the Authorization
// header themselves.
//
// Role and plan are taken from the resolved records rather than the token
// claims, so role or plan changes take effect on the next request instead of
// at token expiry. A token whose user no longer exists is rejected.
func Auth(jwt *jwtutil.JWT, db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("Missing or malformed Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwt.ValidateToken(tokenString)
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
			}

			var user model.User
			if err := db.Preload("Tenant").First(&user, claims.UserID).Error; err != nil {
				// Signature-valid token for a vanished user: current store
				// state wins over stale claims.
				log.Error("Token user not found", zap.Uint("user_id", claims.UserID))
				prometheus.RecordAuthError("stale_token_user")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
			}

			c.Set(currentUserKey, &user)
			c.Set("user_id", user.ID)
			c.Set("tenant_id", user.TenantID)
			c.Set("user_role", user.Role)

			log.Debug("Request authenticated",
				zap.Uint("user_id", user.ID),
				zap.Uint("tenant_id", user.TenantID),
				zap.String("role", user.Role))

			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user injected by Auth, or nil when
// the request did not pass through it.
func CurrentUser(c echo.Context) *model.User {
	user, ok := c.Get(currentUserKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}
