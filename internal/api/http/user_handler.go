package http

import (
	"net/http"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	user, err := h.userSvc.GetProfile(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListClients lists the client accounts an admin can book for.
func (h *UserHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, total, err := h.userSvc.ListClients(r.Context(), actor, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage[domain.User](users, total, page, pageSize))
}
