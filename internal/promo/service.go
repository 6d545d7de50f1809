package promo

import (
	"context"
	"errors"
	"fmt"
	"ms-experiences/internal/logger"
	"ms-experiences/internal/models"
	"strings"
)

type Registry interface {
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
}

type PromoCache interface {
	Get(ctx context.Context, code string) (*models.PromoCode, bool)
	Set(ctx context.Context, promo models.PromoCode)
}

// Service validates promo codes. It only reports discount terms; applying a
// discount to a total stays with the caller.
type Service struct {
	Registry Registry
	Cache    PromoCache
	Logger   *logger.Logger
}

func NewService(registry Registry, cache PromoCache, log *logger.Logger) *Service {
	return &Service{Registry: registry, Cache: cache, Logger: log}
}

// Validate normalizes the code to uppercase and reports its terms. Unknown
// and inactive codes both come back valid:false; only the message differs.
func (s *Service) Validate(ctx context.Context, raw string) (*models.PromoValidation, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return nil, fmt.Errorf("%w: promo code required", models.ErrInvalidRequest)
	}

	promo, err := s.lookup(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.PromoValidation{Valid: false, Message: "Invalid promo code."}, nil
		}
		return nil, fmt.Errorf("promo lookup %s: %w", code, err)
	}

	if !promo.IsActive {
		return &models.PromoValidation{Valid: false, Message: "Promo code inactive."}, nil
	}

	s.Logger.Debug("PROMO", fmt.Sprintf("code %s valid: %s %.2f", promo.Code, promo.DiscountType, promo.DiscountValue))
	return &models.PromoValidation{
		Valid:         true,
		Code:          promo.Code,
		DiscountType:  promo.DiscountType,
		DiscountValue: promo.DiscountValue,
	}, nil
}

func (s *Service) lookup(ctx context.Context, code string) (*models.PromoCode, error) {
	if s.Cache != nil {
		if promo, ok := s.Cache.Get(ctx, code); ok {
			return promo, nil
		}
	}

	promo, err := s.Registry.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, *promo)
	}
	return promo, nil
}
