package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/models"
)

func (h *Handler) LoginHandler(rw http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeAndValidate(rw, r, &req); err != nil {
		h.writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Login failed", zap.Error(err))
		h.writeServiceError(rw, r, err)
		return
	}

	h.writeJSON(rw, http.StatusOK, models.LoginResponse{AccessToken: token})
}
