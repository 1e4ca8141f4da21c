package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/metrics"
	"github.com/mmeshcher/shortener-api/internal/middleware"
	"github.com/mmeshcher/shortener-api/internal/models"
)

// ShortenHandler creates a short URL. Authenticated callers become its owner.
func (h *Handler) ShortenHandler(rw http.ResponseWriter, r *http.Request) {
	var req models.ShortenRequest
	if err := h.decodeAndValidate(rw, r, &req); err != nil {
		h.writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	userID, authenticated := middleware.GetUserIDFromContext(r.Context())

	h.logger.Debug("Creating short url", zap.String("url", req.URL))

	shortURL, err := h.shortener.Create(r.Context(), req.URL, userID)
	if err != nil {
		h.writeServiceError(rw, r, err)
		return
	}
	metrics.ObserveShortURLCreated(authenticated)

	h.writeJSON(rw, http.StatusCreated, models.APIResponse{
		Success: true,
		Message: "Url created successfully",
		Data:    h.toShortURLResponse(r, shortURL),
	})
}
