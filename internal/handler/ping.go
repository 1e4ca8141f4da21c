package handler

import (
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) PingHandler(rw http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		h.logger.Error("Storage ping failed", zap.Error(err))
		h.writeError(rw, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	rw.WriteHeader(http.StatusOK)
}
