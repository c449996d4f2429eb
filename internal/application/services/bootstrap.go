package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lkhorasandzhian/aton-web-api/config"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
)

const seedAge = 20

// Bootstrap makes sure the seed administrator exists. Any account holding
// the seed login, revoked ones included, makes it a no-op, so a revoked seed
// admin stays revoked across restarts.
func Bootstrap(ctx context.Context, repo user.Repository, seed config.Seed, logger *zap.Logger, now time.Time) error {
	existing, err := repo.FetchUserByLogin(ctx, seed.Login)
	if err != nil {
		return fmt.Errorf("check seed admin: %w", err)
	}
	if existing != nil {
		logger.Debug("seed admin already present",
			zap.String("login", seed.Login),
			zap.Bool("active", existing.IsActive()),
		)
		return nil
	}

	birthday := now.AddDate(-seedAge, 0, 0)
	r := user.Registration{
		Login:    seed.Login,
		Password: seed.Password,
		Name:     user.NormalizeName(seed.Name),
		Gender:   user.GenderUnspecified,
		Birthday: &birthday,
		Admin:    true,
	}
	if err = user.ValidateRegistration(r, now); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	err = repo.CreateUser(ctx, user.NewUser(r, "", now))
	if errors.Is(err, user.ErrLoginTaken) {
		// created concurrently by another instance
		return nil
	}
	if err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}

	logger.Info("seed admin created", zap.String("login", seed.Login))

	return nil
}
