package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/shortener-api/internal/metrics"
	"github.com/mmeshcher/shortener-api/internal/service"
)

func (h *Handler) RedirectHandler(rw http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if !isShortCode(shortCode) {
		metrics.ObserveRedirect(false)
		h.writeError(rw, http.StatusNotFound, "Short URL not found")
		return
	}

	shortURL, err := h.shortener.Resolve(r.Context(), shortCode)
	if err != nil {
		metrics.ObserveRedirect(false)
		if !errors.Is(err, service.ErrNotFound) {
			h.writeServiceError(rw, r, err)
			return
		}
		h.writeError(rw, http.StatusNotFound, "Short URL not found")
		return
	}
	metrics.ObserveRedirect(true)

	http.Redirect(rw, r, shortURL.OriginalURL, http.StatusFound)
}

// isShortCode reports whether s could have been produced by the code allocator.
func isShortCode(s string) bool {
	if len(s) != service.ShortCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
