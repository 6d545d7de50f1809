package booking_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ms-experiences/internal/logger"
	"ms-experiences/internal/models"
	"ms-experiences/internal/utils"
	"net/http"
)

type BookingService interface {
	PlaceBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error)
}

type Handler struct {
	Bookings BookingService
	Logger   *logger.Logger
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	response, err := h.Bookings.PlaceBooking(r.Context(), req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	h.Logger.Info("API", fmt.Sprintf("CreateBooking: booking %s created", response.BookingID))
	utils.WriteJSON(w, http.StatusOK, response)
}

// writeBookingError maps service errors onto the storefront's inline
// messages. Anything outside the taxonomy is a transient store failure and
// surfaces as a generic retry-suggesting 500.
func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrPricingMismatch):
		utils.WriteError(w, http.StatusBadRequest, "Booking totals do not match.")
	case errors.Is(err, models.ErrInvalidRequest):
		utils.WriteError(w, http.StatusBadRequest, "Missing booking fields.")
	case errors.Is(err, models.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Experience not found.")
	case errors.Is(err, models.ErrInvalidSlot):
		utils.WriteError(w, http.StatusBadRequest, "Invalid slot.")
	case errors.Is(err, models.ErrSlotsExhausted):
		utils.WriteError(w, http.StatusBadRequest, "Not enough slots left.")
	default:
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Booking failed")
	}
}
