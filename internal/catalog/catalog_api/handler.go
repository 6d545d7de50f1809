package catalog_api

import (
	"context"
	"errors"
	"fmt"
	"ms-experiences/internal/logger"
	"ms-experiences/internal/models"
	"ms-experiences/internal/utils"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	List(ctx context.Context) ([]models.Experience, error)
	Detail(ctx context.Context, id int64) (*models.ExperienceDetail, error)
}

type Handler struct {
	Catalog CatalogService
	Logger  *logger.Logger
}

func (h *Handler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.Catalog.List(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListExperiences: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch experiences")
		return
	}

	utils.WriteJSON(w, http.StatusOK, experiences)
}

func (h *Handler) GetExperience(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Experience not found.")
		return
	}

	detail, err := h.Catalog.Detail(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Experience not found.")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetExperience: id=%s: %v", idParam, err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch experience")
		return
	}

	utils.WriteJSON(w, http.StatusOK, detail)
}
