package handler

import (
	"net/http"

	"github.com/mmeshcher/shortener-api/internal/models"
)

// shortLink builds the public link for code from BASE_URL, or from the request when it is unset.
func (h *Handler) shortLink(r *http.Request, code string) string {
	if h.baseURL != "" {
		return h.baseURL + "/" + code
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + r.Host + "/" + code
}

func (h *Handler) toShortURLResponse(r *http.Request, s *models.ShortURL) models.ShortURLResponse {
	resp := models.ShortURLResponse{
		ID:          s.ID,
		OriginalURL: s.OriginalURL,
		ShortCode:   s.ShortCode,
		ShortURL:    h.shortLink(r, s.ShortCode),
		ClickCount:  s.ClickCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		DeletedAt:   s.DeletedAt,
	}
	if s.UserID != "" {
		userID := s.UserID
		resp.UserID = &userID
	}
	return resp
}

func toUserResponse(u *models.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
