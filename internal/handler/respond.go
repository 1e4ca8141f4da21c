package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/models"
	"github.com/mmeshcher/shortener-api/internal/service"
)

const maxBodySize = 1 << 20

var errUnsupportedContentType = errors.New("content type must be application/json")

func (h *Handler) writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	if err := json.NewEncoder(rw).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(rw http.ResponseWriter, status int, message string) {
	h.writeJSON(rw, status, models.ErrorResponse{
		Success: false,
		Message: message,
	})
}

// writeServiceError maps service errors to status codes. Unexpected errors are logged and hidden.
func (h *Handler) writeServiceError(rw http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeError(rw, http.StatusNotFound, "Short URL not found")
	case errors.Is(err, service.ErrUserAlreadyExists):
		h.writeError(rw, http.StatusConflict, "User already exists")
	case errors.Is(err, service.ErrUnauthorized):
		h.writeError(rw, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrMaxRetriesExceeded):
		h.writeError(rw, http.StatusBadRequest, "Failed to generate unique short code")
	case errors.Is(err, service.ErrInvalidListParams):
		h.writeError(rw, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Error(err))
		h.writeError(rw, http.StatusInternalServerError, "An error occurred")
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// The returned error text is safe to show to the client.
func (h *Handler) decodeAndValidate(rw http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errUnsupportedContentType
		}
	}

	decoder := json.NewDecoder(http.MaxBytesReader(rw, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		h.logger.Debug("Failed to decode request body", zap.Error(err))
		return errors.New("invalid JSON body")
	}

	if err := h.validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.New("invalid request")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "http_url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid http or https URL", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
