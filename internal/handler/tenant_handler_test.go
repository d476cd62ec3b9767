package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-service/internal/model"
)

func TestUpgrade_NonAdminForbidden(t *testing.T) {
	db := newTestDB(t)
	jwt := newTestJWT()
	acme := createTenant(t, db, "acme", model.PlanFree)
	user := createUser(t, db, "user@acme.test", model.RoleUser, acme.ID)

	e := newApp(db, jwt)
	rec := doJSON(e, http.MethodPost, "/api/tenants/acme/upgrade", tokenFor(t, jwt, user), "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only admins can upgrade subscriptions", decodeBody(t, rec)["error"])

	var tenant model.Tenant
	require.NoError(t, db.First(&tenant, acme.ID).Error)
	assert.Equal(t, model.PlanFree, tenant.Plan)
}

func TestUpgrade_ForeignTenantForbidden(t *testing.T) {
	db := newTestDB(t)
	jwt := newTestJWT()
	acme := createTenant(t, db, "acme", model.PlanFree)
	globex := createTenant(t, db, "globex", model.PlanFree)
	admin := createUser(t, db, "admin@acme.test", model.RoleAdmin, acme.ID)

	e := newApp(db, jwt)
	rec := doJSON(e, http.MethodPost, "/api/tenants/globex/upgrade", tokenFor(t, jwt, admin), "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only upgrade your own tenant", decodeBody(t, rec)["error"])

	var tenant model.Tenant
	require.NoError(t, db.First(&tenant, globex.ID).Error)
	assert.Equal(t, model.PlanFree, tenant.Plan)
}

func TestUpgrade_AdminOwnTenant(t *testing.T) {
	db := newTestDB(t)
	jwt := newTestJWT()
	acme := createTenant(t, db, "acme", model.PlanFree)
	admin := createUser(t, db, "admin@acme.test", model.RoleAdmin, acme.ID)

	e := newApp(db, jwt)
	rec := doJSON(e, http.MethodPost, "/api/tenants/acme/upgrade", tokenFor(t, jwt, admin), "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Tenant upgraded to Pro plan successfully", body["message"])
	tenant := body["tenant"].(map[string]interface{})
	assert.Equal(t, "acme", tenant["slug"])
	assert.Equal(t, model.PlanPro, tenant["plan"])

	var stored model.Tenant
	require.NoError(t, db.First(&stored, acme.ID).Error)
	assert.Equal(t, model.PlanPro, stored.Plan)
}

func TestUpgrade_Idempotent(t *testing.T) {
	db := newTestDB(t)
	jwt := newTestJWT()
	acme := createTenant(t, db, "acme", model.PlanPro)
	admin := createUser(t, db, "admin@acme.test", model.RoleAdmin, acme.ID)

	e := newApp(db, jwt)
	rec := doJSON(e, http.MethodPost, "/api/tenants/acme/upgrade", tokenFor(t, jwt, admin), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.PlanPro, decodeBody(t, rec)["tenant"].(map[string]interface{})["plan"])
}

func TestUpgrade_LiftsNoteQuota(t *testing.T) {
	db := newTestDB(t)
	jwt := newTestJWT()
	acme := createTenant(t, db, "acme", model.PlanFree)
	admin := createUser(t, db, "admin@acme.test", model.RoleAdmin, acme.ID)
	e := newApp(db, jwt)
	token := tokenFor(t, jwt, admin)

	for i := 0; i < model.FreePlanNoteLimit; i++ {
		createNote(t, db, fmt.Sprintf("note %d", i), acme.ID, admin.ID, time.Now())
	}

	// At the FREE limit creation is rejected.
	rec := doJSON(e, http.MethodPost, "/api/notes", token, `{"title":"blocked"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/tenants/acme/upgrade", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// After the upgrade the same request succeeds.
	rec = doJSON(e, http.MethodPost, "/api/notes", token, `{"title":"allowed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpgrade_RequiresAuth(t *testing.T) {
	db := newTestDB(t)
	e := newApp(db, newTestJWT())

	rec := doJSON(e, http.MethodPost, "/api/tenants/acme/upgrade", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthCheck_Public(t *testing.T) {
	db := newTestDB(t)
	e := newApp(db, newTestJWT())

	rec := doJSON(e, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}
