package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/swiftpay-app/swiftpay/internal/config"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

type ProfileService struct {
	store storage.Store
}

func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	return s.store.GetProfile(ctx, id)
}

func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, update storage.ProfileUpdate) (domain.Profile, error) {
	p, err := s.store.UpdateProfile(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return domain.Profile{}, err
		}
		return domain.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// Search finds profiles by name or email substring, for the send-money flow.
func (s *ProfileService) Search(ctx context.Context, query string) ([]domain.Profile, error) {
	if query == "" {
		return []domain.Profile{}, nil
	}
	profiles, err := s.store.SearchProfiles(ctx, query, config.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return profiles, nil
}
