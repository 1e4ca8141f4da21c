package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/shortener-api/internal/middleware"
	"github.com/mmeshcher/shortener-api/internal/models"
)

func (h *Handler) UpdateHandler(rw http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(rw, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	shortCode := chi.URLParam(r, "shortCode")

	var req models.ShortenRequest
	if err := h.decodeAndValidate(rw, r, &req); err != nil {
		h.writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.shortener.Update(r.Context(), shortCode, req.URL, userID); err != nil {
		h.writeServiceError(rw, r, err)
		return
	}

	h.writeJSON(rw, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Url updated successfully",
	})
}
