package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestJWT() *jwtutil.JWT {
	return jwtutil.New(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 24})
}

// newApp builds the API surface the way cmd/main.go does, minus the
// operational middleware.
func newApp(db *gorm.DB, jwt *jwtutil.JWT) *echo.Echo {
	e := echo.New()
	e.Use(middleware.CORS)

	authHandler := NewAuthHandler(db, jwt)
	noteHandler := NewNoteHandler(db)
	tenantHandler := NewTenantHandler(db)

	api := e.Group("/api")
	api.GET("/health", HealthCheck)
	api.POST("/auth/login", authHandler.Login)

	notes := api.Group("/notes", middleware.Auth(jwt, db))
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create)
	notes.DELETE("/:id", noteHandler.Delete)

	tenants := api.Group("/tenants", middleware.Auth(jwt, db))
	tenants.POST("/:slug/upgrade", tenantHandler.Upgrade)

	return e
}

func createTenant(t *testing.T, db *gorm.DB, slug, plan string) *model.Tenant {
	t.Helper()
	tenant := model.Tenant{Slug: slug, Name: slug + " Inc", Plan: plan}
	require.NoError(t, db.Create(&tenant).Error)
	return &tenant
}

func createUser(t *testing.T, db *gorm.DB, email, role string, tenantID uint) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{Email: email, Password: string(hash), Role: role, TenantID: tenantID}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createNote(t *testing.T, db *gorm.DB, title string, tenantID, authorID uint, createdAt time.Time) *model.Note {
	t.Helper()
	note := model.Note{Title: title, TenantID: tenantID, AuthorID: authorID, CreatedAt: createdAt}
	require.NoError(t, db.Create(&note).Error)
	return &note
}

func tokenFor(t *testing.T, jwt *jwtutil.JWT, user *model.User) string {
	t.Helper()
	token, err := jwt.GenerateToken(user.ID, user.TenantID, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
