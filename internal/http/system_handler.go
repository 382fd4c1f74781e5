package http

import (
	"context"
	"net/http"

	"github.com/tuanvumaihuynh/medical-inventory/internal/apperr"
)

const indexMessage = "Medical Management API is running!"

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

type systemHandler struct {
	health HealthChecker
}

func (h *systemHandler) Index(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, messageResponse{Message: indexMessage})
}

func (h *systemHandler) Health(w http.ResponseWriter, r *http.Request) error {
	ok, err := h.health.IsHealthy(r.Context())
	if !ok {
		return apperr.ServiceUnhealthyErr.WrapParent(err)
	}

	return writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
