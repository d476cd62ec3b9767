package database

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"notes-service/internal/model"
)

// Seed provisions the demo tenants and users used by local development and
// acceptance checks. It is idempotent: existing rows are left untouched.
//
// Tenants: acme and globex, both on the FREE plan. Users: an ADMIN and a
// USER per tenant (admin@<slug>.test / user@<slug>.test), all with the
// password "password".
func Seed(conn *gorm.DB) error {
	tenants := []model.Tenant{
		{Slug: "acme", Name: "Acme Corporation", Plan: model.PlanFree},
		{Slug: "globex", Name: "Globex Corporation", Plan: model.PlanFree},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for i := range tenants {
		tenant := &tenants[i]
		if err := conn.Where(model.Tenant{Slug: tenant.Slug}).FirstOrCreate(tenant).Error; err != nil {
			return err
		}

		users := []model.User{
			{Email: "admin@" + tenant.Slug + ".test", Role: model.RoleAdmin, TenantID: tenant.ID},
			{Email: "user@" + tenant.Slug + ".test", Role: model.RoleUser, TenantID: tenant.ID},
		}
		for _, user := range users {
			user.Password = string(hash)
			if err := conn.Where(model.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
