package model

import (
	"context"

	"github.com/sirupsen/logrus"

	"peopledesk/internal/auth"
	"peopledesk/internal/entity"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
)

// SeedDefaultAdmin creates the bootstrap admin account when the users table is
// empty, so a fresh install can be logged into at all.
func SeedDefaultAdmin(ctx context.Context, repo Repository) error {
	if repo == nil {
		return nil
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &entity.DbUser{
		Name:         "Administrator",
		Email:        "admin@peopledesk.local",
		Username:     defaultAdminUsername,
		PasswordHash: hash,
		Role:         entity.UserRoleAdmin,
		Status:       entity.UserStatusActive,
		Permissions:  entity.StringArray{"full_access"},
	}

	if err := repo.CreateUser(ctx, admin); err != nil {
		return err
	}

	logrus.WithField("username", defaultAdminUsername).
		Warn("seeded default admin account, rotate its password immediately")
	return nil
}
