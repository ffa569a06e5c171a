package http

import (
	"fmt"
	"net/http"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
	"suit-rental-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type createRentalRequest struct {
	SuitID        int32                 `json:"suit_id"`
	ClientID      int32                 `json:"client_id"`
	Days          []domain.Day          `json:"days"`
	Notes         *string               `json:"notes"`
	PaymentStatus *domain.PaymentStatus `json:"payment_status"`
}

type updateRentalRequest struct {
	Status        *domain.RentalStatus  `json:"status"`
	PaymentStatus *domain.PaymentStatus `json:"payment_status"`
	Notes         *string               `json:"notes"`
}

// CreateRental books the requested days of a suit for a client.
func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	var req createRentalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.CreateRental(r.Context(), actor, service.CreateRentalInput{
		SuitID:        req.SuitID,
		ClientID:      req.ClientID,
		Days:          req.Days,
		Notes:         req.Notes,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateRentalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.UpdateRental(r.Context(), actor, id, service.RentalUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rentalSvc.DeleteRental(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ListAdminRentals(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	filter, err := rentalFilterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, total, err := h.rentalSvc.ListAdminRentals(r.Context(), actor, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage[domain.Rental](rentals, total, filter.Page, filter.PageSize))
}

func (h *RentalHandler) ListClientRentals(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, total, err := h.rentalSvc.ListClientRentals(r.Context(), actor, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage[domain.Rental](rentals, total, page, pageSize))
}

func rentalFilterFromQuery(r *http.Request) (repository.RentalFilter, error) {
	var filter repository.RentalFilter
	var err error
	if filter.Page, filter.PageSize, err = pageParams(r); err != nil {
		return filter, err
	}
	if filter.ClientID, err = queryInt32(r, "client_id"); err != nil {
		return filter, err
	}
	if filter.SuitID, err = queryInt32(r, "suit_id"); err != nil {
		return filter, err
	}
	q := r.URL.Query()
	filter.Status = domain.RentalStatus(q.Get("status"))
	if raw := q.Get("start_from"); raw != "" {
		day, err := domain.ParseDay(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		filter.StartFrom = &day
	}
	return filter, nil
}
