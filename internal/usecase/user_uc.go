package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"line-relay/internal/domain"
	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/repository"
	"line-relay/internal/infra/logging"
	"line-relay/internal/infra/metrics"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes registry operations used by the webhook and HTTP flows.
type UserUseCase interface {
	// Observe records id if it has not been seen before and reports whether
	// this call added it.
	Observe(ctx context.Context, id model.UserID) (bool, error)
	List(ctx context.Context) ([]model.UserID, error)
}

type userUC struct {
	users repository.UserRegistry
	log   *zerolog.Logger
	dev   bool
}

func NewUserUseCase(users repository.UserRegistry, logger *zerolog.Logger, dev bool) *userUC {
	return &userUC{
		users: users,
		log:   logger,
		dev:   dev,
	}
}

func (u *userUC) Observe(ctx context.Context, id model.UserID) (bool, error) {
	defer logging.TraceDuration(u.log, "UserUC.Observe")()

	if id.IsZero() {
		return false, fmt.Errorf("%w: empty user id", domain.ErrInvalidArgument)
	}
	added, err := u.users.RecordIfNew(ctx, id)
	if err != nil {
		logging.With(ctx, u.log).Error().Err(err).Msg("Failed to record user")
		return false, fmt.Errorf("record user: %w", err)
	}
	if added {
		metrics.IncUsersRegistered()
		logging.With(ctx, u.log).Info().
			Str("line_user", logging.Redact(id.String(), u.dev)).
			Msg("New user registered")
	}
	return added, nil
}

func (u *userUC) List(ctx context.Context) ([]model.UserID, error) {
	defer logging.TraceDuration(u.log, "UserUC.List")()

	ids, err := u.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if ids == nil {
		ids = []model.UserID{}
	}
	return ids, nil
}
