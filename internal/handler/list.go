package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmeshcher/shortener-api/internal/middleware"
	"github.com/mmeshcher/shortener-api/internal/models"
)

func (h *Handler) ListHandler(rw http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(rw, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	params, err := parseListParams(r.URL.Query())
	if err != nil {
		h.writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.shortener.List(r.Context(), userID, params)
	if err != nil {
		h.writeServiceError(rw, r, err)
		return
	}

	data := make([]models.ShortURLResponse, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, h.toShortURLResponse(r, &page.Items[i]))
	}

	h.writeJSON(rw, http.StatusOK, models.ListShortURLsResponse{
		Success:    true,
		Message:    "Urls fetched successfully",
		Data:       data,
		Pagination: page.Pagination,
	})
}

// parseListParams reads page, limit, sortBy and sortOrder. Missing values stay zero for the service defaults.
func parseListParams(q url.Values) (models.ListParams, error) {
	var params models.ListParams

	page, err := positiveInt(q, "page")
	if err != nil {
		return params, err
	}
	limit, err := positiveInt(q, "limit")
	if err != nil {
		return params, err
	}

	params.Page = page
	params.Limit = limit
	params.SortBy = models.SortField(q.Get("sortBy"))
	params.SortOrder = models.SortOrder(q.Get("sortOrder"))

	return params, nil
}

func positiveInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}
