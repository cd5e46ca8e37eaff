package promocode

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"swiftfood/internal/pricing"
)

// Service validates and redeems promo codes. It is the concrete
// implementation behind the pricing engine's PromoCodeValidator.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate checks a code against the post-restaurant-discount subtotal and
// returns the discount it would grant. An invalid code is not an error:
// the result carries the customer-facing reason instead. An error return
// means the answer is unknown (lookup failed), which the caller surfaces
// as an unvalidated code rather than a rejected one.
func (s *Service) Validate(ctx context.Context, code string, subtotalPence int64) (pricing.PromoCodeResult, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if err == ErrNotFound {
			return pricing.PromoCodeResult{Reason: "unknown promo code"}, nil
		}
		return pricing.PromoCodeResult{}, err
	}

	if ok, reason := c.Usable(s.now()); !ok {
		return pricing.PromoCodeResult{Reason: reason}, nil
	}

	if subtotalPence < c.MinOrderPence {
		return pricing.PromoCodeResult{
			Reason: fmt.Sprintf("order must be at least %s to use this code",
				pricing.FormatGBP(c.MinOrderPence)),
		}, nil
	}

	discount := s.discountFor(c, subtotalPence)
	return pricing.PromoCodeResult{Valid: true, DiscountPence: discount}, nil
}

// Redeem burns one use of the code. Called once, at order commit, after
// the quoted total has been verified.
func (s *Service) Redeem(ctx context.Context, code string) error {
	return s.repo.Redeem(ctx, code)
}

// Create registers a new platform code. Admin-only at the handler layer.
func (s *Service) Create(ctx context.Context, c *PromoCode) (*PromoCode, error) {
	if c.Code == "" {
		return nil, fmt.Errorf("code is required")
	}
	switch c.Kind {
	case KindPercent:
		if c.Value <= 0 || c.Value > 100 {
			return nil, fmt.Errorf("percent value must be in (0, 100], got %v", c.Value)
		}
	case KindFixed:
		if c.Value < 1 {
			return nil, fmt.Errorf("fixed value must be at least one penny")
		}
	default:
		return nil, fmt.Errorf("unknown discount kind %q", c.Kind)
	}
	if !c.EndDate.After(c.StartDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	c.ID = uuid.New().String()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) discountFor(c *PromoCode, subtotalPence int64) int64 {
	var discount int64
	switch c.Kind {
	case KindPercent:
		discount = pricing.PercentOf(subtotalPence, c.Value)
	case KindFixed:
		discount = int64(c.Value)
	}
	if discount > subtotalPence {
		discount = subtotalPence
	}
	return discount
}
