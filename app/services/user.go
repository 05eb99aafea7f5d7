package services

import (
	"context"
	"strings"

	"github.com/narang24/Journal-Website-Backend/app/dto"
	appErrors "github.com/narang24/Journal-Website-Backend/app/errors"
	"github.com/narang24/Journal-Website-Backend/app/models"
	"github.com/narang24/Journal-Website-Backend/app/store"
)

// UserService handles profile reads and updates for authenticated users.
type UserService struct {
	store store.Storage
}

func NewUserService(store store.Storage) *UserService {
	return &UserService{store: store}
}

// UpdateProfile applies only the fields present in the request. Absent fields
// keep their stored values; an explicit empty string clears the field.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, req dto.UpdateProfileRequest) (*models.User, *appErrors.AppError) {
	log := getLoggerFromContext(ctx)

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Expertise != nil {
		user.Expertise = []string(*req.Expertise)
	}

	if err := s.store.Users.Update(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to update profile")
		return nil, appErrors.NewInternal("Profile update failed. Please try again later.")
	}

	return user, nil
}

// Stats returns the dashboard aggregate. Manuscript and review tracking are
// not persisted yet, so every counter is zero until those modules land.
func (s *UserService) Stats(ctx context.Context, user *models.User) dto.UserStats {
	return dto.UserStats{}
}
