package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/photoflow/photoflow-go/internal/service"
	"github.com/photoflow/photoflow-go/internal/store"
)

// PortfolioHandler serves the public, unauthenticated portfolio view.
type PortfolioHandler struct {
	service *service.ProjectService
}

func NewPortfolioHandler(svc *service.ProjectService) *PortfolioHandler {
	return &PortfolioHandler{service: svc}
}

// HandleGet handles GET /api/v1/portfolio/{slug}: the slug owner with the
// password stripped and their completed projects.
func (h *PortfolioHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.service.PublicPortfolio(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("portfolio not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}
