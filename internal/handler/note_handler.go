package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

// errNoteLimitReached aborts the create transaction when the FREE plan quota
// is hit.
var errNoteLimitReached = errors.New("note limit reached")

// NoteHandler serves the tenant-scoped note endpoints. Every query is
// filtered by the caller's tenant; no request can observe or touch another
// tenant's notes.
type NoteHandler struct {
	db *gorm.DB
}

func NewNoteHandler(db *gorm.DB) *NoteHandler {
	return &NoteHandler{db: db}
}

// List returns all notes belonging to the caller's tenant, newest first.
func (h *NoteHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("list")

	user := middleware.CurrentUser(c)
	if user == nil {
		prometheus.RecordAuthError("missing_identity")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var notes []model.Note
	result := h.db.
		Preload("Author", func(db *gorm.DB) *gorm.DB { return db.Select("id", "email") }).
		Where("tenant_id = ?", user.TenantID).
		Order("created_at DESC").
		Find(&notes)
	if result.Error != nil {
		log.Error("Failed to list notes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"notes": notes})
}

// Create persists a new note stamped with the caller's tenant and author.
// FREE tenants are limited to model.FreePlanNoteLimit notes; the count and
// insert run in one transaction so concurrent creates at the limit cannot
// both commit.
func (h *NoteHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("create")

	user := middleware.CurrentUser(c)
	if user == nil {
		prometheus.RecordAuthError("missing_identity")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Title is required"})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Title is required"})
	}

	note := model.Note{
		Title:    req.Title,
		Content:  req.Content,
		TenantID: user.TenantID,
		AuthorID: user.ID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if user.Tenant.Plan == model.PlanFree {
			var count int64
			if err := tx.Model(&model.Note{}).Where("tenant_id = ?", user.TenantID).Count(&count).Error; err != nil {
				return err
			}
			if count >= model.FreePlanNoteLimit {
				return errNoteLimitReached
			}
		}
		return tx.Create(&note).Error
	})
	if err != nil {
		if errors.Is(err, errNoteLimitReached) {
			log.Info("Note limit reached",
				zap.Uint("tenant_id", user.TenantID),
				zap.String("plan", user.Tenant.Plan))
			prometheus.QuotaExceededCounter.Inc()
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "Note limit reached. Upgrade to Pro plan for unlimited notes.",
			})
		}
		log.Error("Failed to create note", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	note.Author = model.User{ID: user.ID, Email: user.Email}

	log.Info("Note created",
		zap.Uint("id", note.ID),
		zap.Uint("tenant_id", note.TenantID),
		zap.Uint("author_id", note.AuthorID))

	return c.JSON(http.StatusOK, echo.Map{"note": note})
}

// Delete removes a note within the caller's tenant. A note that does not
// exist and a note in another tenant are indistinguishable to the caller.
func (h *NoteHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("delete")

	user := middleware.CurrentUser(c)
	if user == nil {
		prometheus.RecordAuthError("missing_identity")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Note not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Where("id = ? AND tenant_id = ?", id, user.TenantID).Delete(&model.Note{})
	if result.Error != nil {
		log.Error("Failed to delete note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Note not found"})
	}

	log.Info("Note deleted",
		zap.Uint64("id", id),
		zap.Uint("tenant_id", user.TenantID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted"})
}
