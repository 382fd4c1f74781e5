package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/medical-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/medical-inventory/internal/service"
)

type userHandler struct {
	userSvc service.UserService
}

func newUserHandler(userSvc service.UserService) *userHandler {
	return &userHandler{
		userSvc: userSvc,
	}
}

func (h *userHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.userSvc.ListUsers(r.Context())
	if err != nil {
		return apperr.ListUsersErr.WrapParent(fmt.Errorf("user service list users: %w", err))
	}

	return writeJSON(w, http.StatusOK, toUserResponses(users))
}
