package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

// TenantHandler serves the tenant plan endpoints.
type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

// Upgrade moves a tenant to the PRO plan. Only an ADMIN may upgrade, and
// only their own tenant; the two checks fail with distinct messages.
// Upgrading an already-PRO tenant is a no-op success.
func (h *TenantHandler) Upgrade(c echo.Context) error {
	log := logger.FromContext(c)

	user := middleware.CurrentUser(c)
	if user == nil {
		prometheus.RecordAuthError("missing_identity")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	slug := c.Param("slug")

	if !user.IsAdmin() {
		log.Error("Non-admin attempted tenant upgrade",
			zap.Uint("user_id", user.ID),
			zap.String("role", user.Role))
		prometheus.RecordAuthError("forbidden_role")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Only admins can upgrade subscriptions"})
	}

	if user.Tenant.Slug != slug {
		log.Error("Admin attempted upgrade of foreign tenant",
			zap.Uint("user_id", user.ID),
			zap.String("own_slug", user.Tenant.Slug),
			zap.String("target_slug", slug))
		prometheus.RecordAuthError("forbidden_tenant")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only upgrade your own tenant"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&model.Tenant{}).Where("slug = ?", slug).Update("plan", model.PlanPro).Error; err != nil {
		log.Error("Failed to upgrade tenant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	tenant := user.Tenant
	tenant.Plan = model.PlanPro

	prometheus.TenantUpgradeCounter.Inc()
	log.Info("Tenant upgraded",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("slug", tenant.Slug))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Tenant upgraded to Pro plan successfully",
		"tenant":  tenant.Summary(),
	})
}
