package catalog

import (
	"context"
	"fmt"
	"ms-experiences/internal/logger"
	"ms-experiences/internal/models"
	"time"
)

type Store interface {
	ListExperiences(ctx context.Context) ([]models.Experience, error)
	GetExperienceByID(ctx context.Context, id int64) (*models.Experience, error)
	EnsureSlotWindow(ctx context.Context, experienceID int64, from string, days, capacity int) error
	SlotsInWindow(ctx context.Context, experienceID int64, from string, days int) ([]models.Slot, error)
}

// Service serves the catalog read path: the experience list and the detail
// view with its availability window.
type Service struct {
	Store        Store
	Logger       *logger.Logger
	WindowDays   int
	SlotCapacity int
}

func NewService(store Store, log *logger.Logger, windowDays, slotCapacity int) *Service {
	return &Service{
		Store:        store,
		Logger:       log,
		WindowDays:   windowDays,
		SlotCapacity: slotCapacity,
	}
}

func (s *Service) List(ctx context.Context) ([]models.Experience, error) {
	return s.Store.ListExperiences(ctx)
}

// Detail returns the experience plus its slots for the next WindowDays days.
// Missing slots in the window are materialized at full capacity before the
// read; existing slots keep whatever slots_left they have.
func (s *Service) Detail(ctx context.Context, id int64) (*models.ExperienceDetail, error) {
	experience, err := s.Store.GetExperienceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	if err := s.Store.EnsureSlotWindow(ctx, id, today, s.WindowDays, s.SlotCapacity); err != nil {
		return nil, fmt.Errorf("ensure slot window for experience %d: %w", id, err)
	}
	s.Logger.Debug("CATALOG", fmt.Sprintf("slot window ensured for experience %d from %s", id, today))

	slots, err := s.Store.SlotsInWindow(ctx, id, today, s.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("slots for experience %d: %w", id, err)
	}

	return &models.ExperienceDetail{
		Experience: *experience,
		Slots:      slots,
	}, nil
}
