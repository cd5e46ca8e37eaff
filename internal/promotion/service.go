package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"swiftfood/internal/core"
)

var ErrNotOwner = errors.New("not the restaurant owner")

// Service is the operator-facing side of promotions: create, edit, list.
// Everything it accepts has already passed the same Validate the pricing
// resolver re-runs, plus catalog checks the resolver cannot do (it only ever
// sees a cart, so "references an item the restaurant does not sell" has to
// be caught here, at setup time).
type Service struct {
	repo        Repository
	restaurants core.RestaurantReader
	menus       core.MenuReader
}

func NewService(repo Repository, restaurants core.RestaurantReader, menus core.MenuReader) *Service {
	return &Service{repo: repo, restaurants: restaurants, menus: menus}
}

// --------------------------------------------------
// CREATE
// --------------------------------------------------
func (s *Service) Create(ctx context.Context, userID string, p *Promotion) (*Promotion, error) {
	if err := s.authorize(ctx, p.RestaurantID, userID); err != nil {
		return nil, err
	}

	p.ID = uuid.New().String()
	if p.Status == "" {
		p.Status = deriveStatus(p, time.Now())
	}

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	return p, nil
}

// --------------------------------------------------
// UPDATE
// --------------------------------------------------
func (s *Service) Update(ctx context.Context, userID string, p *Promotion) (*Promotion, error) {
	if err := s.authorize(ctx, p.RestaurantID, userID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// --------------------------------------------------
// DELETE
// --------------------------------------------------
func (s *Service) Delete(ctx context.Context, userID, restaurantID, id string) error {
	if err := s.authorize(ctx, restaurantID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, restaurantID, id)
}

// --------------------------------------------------
// LIST (OPERATOR VIEW)
// --------------------------------------------------
func (s *Service) List(ctx context.Context, userID, restaurantID string) ([]Promotion, error) {
	if err := s.authorize(ctx, restaurantID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByRestaurant(ctx, restaurantID)
}

// ActiveForRestaurants loads the promotion snapshot for a pricing run. No
// ownership check: this is read on the customer path.
func (s *Service) ActiveForRestaurants(ctx context.Context, restaurantIDs []string) (map[string][]Promotion, error) {
	return s.repo.ListActiveForRestaurants(ctx, restaurantIDs)
}

func (s *Service) authorize(ctx context.Context, restaurantID, userID string) error {
	ok, err := s.restaurants.IsOwner(ctx, restaurantID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwner
	}
	return nil
}

// validate runs the shared structural checks plus the catalog check for
// variants that name menu items.
func (s *Service) validate(ctx context.Context, p *Promotion) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var itemIDs []string
	switch p.Variant {
	case ItemSpecific:
		itemIDs = p.Percent.ItemIDs
	case Bogo:
		itemIDs = p.Bogo.ItemIDs
	}
	if len(itemIDs) == 0 {
		return nil
	}

	missing, err := s.menus.MissingItems(ctx, p.RestaurantID, itemIDs)
	if err != nil {
		return fmt.Errorf("check promotion items: %w", err)
	}
	if len(missing) > 0 {
		return &ConfigError{
			PromotionID: p.ID,
			Reason:      fmt.Sprintf("references items not sold by the restaurant: %v", missing),
		}
	}
	return nil
}

// deriveStatus picks the initial status from the validity window when the
// operator did not set one explicitly.
func deriveStatus(p *Promotion, now time.Time) Status {
	switch {
	case now.Before(p.StartDate):
		return StatusScheduled
	case now.After(p.EndDate):
		return StatusExpired
	default:
		return StatusActive
	}
}
