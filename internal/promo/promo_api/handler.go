package promo_api

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

type PromoService interface {
	Validate(ctx context.Context, code string) (*models.PromoValidation, error)
}

type Handler struct {
	Promos PromoService
	Logger *logger.Logger
}

func (h *Handler) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PromoCode string `json:"promoCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Promo code required.")
		return
	}

	result, err := h.Promos.Validate(r.Context(), req.PromoCode)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRequest) {
			utils.WriteError(w, http.StatusBadRequest, "Promo code required.")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("ValidatePromo: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Promo validation failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}
