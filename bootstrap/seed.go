package bootstrap

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"wardwatch-be/models"
	"wardwatch-be/store"
)

const (
	defaultWardCount = 10

	// Fixed known credential for the first admin; change it after first
	// login on anything that isn't a dev box.
	AdminEmail    = "admin@wardwatch.local"
	AdminPassword = "admin123"
)

// Seed provisions the default wards and the initial admin account. Both
// actions are guarded by existence checks, so calling it on every startup is
// safe: a populated store gains zero records.
func Seed(ctx context.Context, wards store.WardStore, users store.UserStore) error {
	if err := seedWards(ctx, wards); err != nil {
		return fmt.Errorf("seed wards: %w", err)
	}
	if err := seedAdmin(ctx, users); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func seedWards(ctx context.Context, wards store.WardStore) error {
	count, err := wards.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for n := 1; n <= defaultWardCount; n++ {
		ward := models.Ward{
			WardNumber:  n,
			Name:        fmt.Sprintf("Ward %d", n),
			Description: fmt.Sprintf("Municipal ward number %d", n),
			Population:  10000 + rand.Intn(90000),
			Area:        1 + rand.Float64()*24,
			Representative: models.Representative{
				Name:    fmt.Sprintf("Representative %d", n),
				Contact: fmt.Sprintf("98%08d", rand.Intn(100000000)),
			},
		}
		if _, err := wards.Create(ctx, ward); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d default wards", defaultWardCount)
	return nil
}

func seedAdmin(ctx context.Context, users store.UserStore) error {
	count, err := users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		Name:       "Administrator",
		Email:      AdminEmail,
		Password:   AdminPassword,
		Role:       models.RoleAdmin,
		WardNumber: 1,
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	if _, err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Seeded admin account %s", AdminEmail)
	return nil
}
