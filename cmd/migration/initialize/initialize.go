package initialize

import (
	"context"

	"github.com/AbbasAlizada1380/mellat/config"
	userController "github.com/AbbasAlizada1380/mellat/internal/controllers/users"
	"github.com/AbbasAlizada1380/mellat/internal/logger"
)

// InitializeTables creates the data every installation needs. Today that is
// the first admin account, taken from SEED_ADMIN_LOGIN and
// SEED_ADMIN_PASSWORD when both are set.
func InitializeTables(
	ctx context.Context,
	users *userController.UserController,
	config config.Config,
	log logger.Logger,
) error {
	log = log.Function("InitializeTables")

	if config.SeedAdminLogin == "" || config.SeedAdminPassword == "" {
		log.Info("Admin credentials not configured, skipping admin account")
		return nil
	}

	user, created, err := users.EnsureAdmin(ctx, config.SeedAdminLogin, config.SeedAdminPassword)
	if err != nil {
		return log.Err("failed to ensure admin", err, "login", config.SeedAdminLogin)
	}

	if created {
		log.Info("Admin account created", "login", user.Login)
	} else {
		log.Info("Admin account already exists", "login", user.Login)
	}

	return nil
}
