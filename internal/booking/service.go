package booking

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"ms-experiences/internal/logger"
	"ms-experiences/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DBLayer interface {
	ReserveSlot(ctx context.Context, booking *models.Booking) error
}

type CatalogReader interface {
	GetExperienceByID(ctx context.Context, id int64) (*models.Experience, error)
}

type EventPublisher interface {
	PublishBookingCreated(booking models.Booking) error
}

type QRGenerator interface {
	ConfirmationPNG(bookingID string, createdAt time.Time) ([]byte, error)
}

// BookingService validates checkout requests and drives the atomic
// slot reservation. Events and QR generation are best-effort: a failure in
// either never fails an already committed booking.
type BookingService struct {
	DB             DBLayer
	Catalog        CatalogReader
	Events         EventPublisher
	QR             QRGenerator
	Logger         *logger.Logger
	TaxRatePercent int
}

func NewBookingService(db DBLayer, catalog CatalogReader, events EventPublisher, qr QRGenerator, log *logger.Logger, taxRatePercent int) *BookingService {
	return &BookingService{
		DB:             db,
		Catalog:        catalog,
		Events:         events,
		QR:             qr,
		Logger:         log,
		TaxRatePercent: taxRatePercent,
	}
}

// PlaceBooking accepts or rejects a checkout request.
//
// Validation order: required fields, experience existence, pricing
// recomputation, then the atomic check-and-decrement. On any failure no
// state changes; on success exactly one slot loses quantity capacity and
// exactly one booking row exists.
func (s *BookingService) PlaceBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	experience, err := s.Catalog.GetExperienceByID(ctx, req.ExperienceID)
	if err != nil {
		return nil, err
	}

	// Caller-supplied totals are advisory only: recompute from the
	// experience's unit price and reject on disagreement.
	if err := s.checkPricing(req, experience.Price); err != nil {
		return nil, err
	}

	booking := models.Booking{
		ID:           uuid.NewString(),
		ExperienceID: req.ExperienceID,
		SlotID:       req.SlotID,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		Quantity:     req.Quantity,
		PromoCode:    strings.ToUpper(strings.TrimSpace(req.PromoCode)),
		Price:        req.Price,
		Subtotal:     req.Subtotal,
		Taxes:        req.Taxes,
		Total:        req.Total,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.DB.ReserveSlot(ctx, &booking); err != nil {
		return nil, err
	}
	s.Logger.LogBooking("CREATE", booking.ID, fmt.Sprintf("slot %s, quantity %d", booking.SlotID, booking.Quantity))

	if s.Events != nil {
		if err := s.Events.PublishBookingCreated(booking); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish booking created %s: %v", booking.ID, err))
		}
	}

	response := &models.BookingResponse{
		BookingID: booking.ID,
		CreatedAt: booking.CreatedAt,
	}

	if s.QR != nil {
		png, err := s.QR.ConfirmationPNG(booking.ID, booking.CreatedAt)
		if err != nil {
			s.Logger.Error("QR", fmt.Sprintf("confirmation QR for booking %s: %v", booking.ID, err))
		} else {
			response.QR = base64.StdEncoding.EncodeToString(png)
		}
	}

	return response, nil
}

func validateRequest(req models.BookingRequest) error {
	switch {
	case req.ExperienceID == 0,
		req.SlotID == "",
		strings.TrimSpace(req.FullName) == "",
		strings.TrimSpace(req.Email) == "",
		req.Quantity <= 0,
		req.Price <= 0,
		req.Subtotal <= 0,
		req.Taxes == 0,
		req.Total <= 0:
		return fmt.Errorf("%w: missing booking fields", models.ErrInvalidRequest)
	}
	return nil
}

func (s *BookingService) checkPricing(req models.BookingRequest, unitPrice int64) error {
	subtotal := unitPrice * int64(req.Quantity)
	taxes := int64(math.Round(float64(subtotal) * float64(s.TaxRatePercent) / 100))
	total := subtotal + taxes

	if req.Price != unitPrice || req.Subtotal != subtotal || req.Taxes != taxes || req.Total != total {
		return fmt.Errorf("%w: expected subtotal %d, taxes %d, total %d", models.ErrPricingMismatch, subtotal, taxes, total)
	}
	return nil
}
