package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/shortener-api/internal/middleware"
	"github.com/mmeshcher/shortener-api/internal/models"
)

func (h *Handler) DeleteHandler(rw http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(rw, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	if err := h.shortener.Delete(r.Context(), chi.URLParam(r, "shortCode"), userID); err != nil {
		h.writeServiceError(rw, r, err)
		return
	}

	h.writeJSON(rw, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Url deleted successfully",
	})
}
