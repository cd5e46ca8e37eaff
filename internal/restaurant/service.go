package restaurant

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*Restaurant, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListApproved(ctx context.Context) ([]*Restaurant, error) {
	return s.repo.ListApproved(ctx)
}

func (s *Service) IsOwner(ctx context.Context, restaurantID, userID string) (bool, error) {
	return s.repo.IsOwner(ctx, restaurantID, userID)
}

// CommissionRates loads the pricing snapshot's rate map and insists every
// requested restaurant exists: pricing against a missing rate would silently
// pay a restaurant the full gross.
func (s *Service) CommissionRates(ctx context.Context, ids []string) (map[string]float64, error) {
	rates, err := s.repo.CommissionRates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("commission rates: %w", err)
	}
	for _, id := range ids {
		if _, ok := rates[id]; !ok {
			return nil, fmt.Errorf("restaurant %s: %w", id, ErrNotFound)
		}
	}
	return rates, nil
}

func (s *Service) Names(ctx context.Context, ids []string) (map[string]string, error) {
	return s.repo.Names(ctx, ids)
}

func (s *Service) SetCommissionRate(ctx context.Context, id string, rate float64) error {
	if rate < 0 || rate > 100 {
		return errors.New("commission rate must be between 0 and 100")
	}
	return s.repo.SetCommissionRate(ctx, id, rate)
}
