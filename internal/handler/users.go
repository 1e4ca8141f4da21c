package handler

import (
	"net/http"

	"github.com/mmeshcher/shortener-api/internal/models"
)

func (h *Handler) CreateUserHandler(rw http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := h.decodeAndValidate(rw, r, &req); err != nil {
		h.writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeServiceError(rw, r, err)
		return
	}

	h.writeJSON(rw, http.StatusCreated, models.APIResponse{
		Success: true,
		Message: "User created successfully",
		Data:    toUserResponse(user),
	})
}
