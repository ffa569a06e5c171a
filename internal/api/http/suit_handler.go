package http

import (
	"net/http"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/service"
)

type SuitHandler struct {
	suitSvc         service.SuitService
	availabilitySvc service.AvailabilityService
}

func NewSuitHandler(suitSvc service.SuitService, availabilitySvc service.AvailabilityService) *SuitHandler {
	return &SuitHandler{suitSvc: suitSvc, availabilitySvc: availabilitySvc}
}

type suitRequest struct {
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	Size             domain.SuitSize     `json:"size"`
	Color            string              `json:"color"`
	Gender           domain.SuitGender   `json:"gender"`
	Category         domain.SuitCategory `json:"category"`
	PricePerDayCents int64               `json:"price_per_day_cents"`
	Status           domain.SuitStatus   `json:"status"`
}

func (req suitRequest) toDomain(id int32) *domain.Suit {
	return &domain.Suit{
		ID:               id,
		Name:             req.Name,
		Description:      req.Description,
		Size:             req.Size,
		Color:            req.Color,
		Gender:           req.Gender,
		Category:         req.Category,
		PricePerDayCents: req.PricePerDayCents,
		Status:           req.Status,
	}
}

func (h *SuitHandler) ListSuits(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	suits, total, err := h.suitSvc.ListSuits(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage[domain.Suit](suits, total, page, pageSize))
}

func (h *SuitHandler) GetSuit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	suit, err := h.suitSvc.GetSuit(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suit)
}

// Availability renders the calendar of days a suit cannot be booked.
func (h *SuitHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	availability, err := h.availabilitySvc.UnavailableDays(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

func (h *SuitHandler) ListMySuits(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	suits, total, err := h.suitSvc.ListMySuits(r.Context(), actor, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage[domain.Suit](suits, total, page, pageSize))
}

func (h *SuitHandler) AddSuit(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	var req suitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	suit := req.toDomain(0)
	if err := h.suitSvc.AddSuit(r.Context(), actor, suit); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, suit)
}

func (h *SuitHandler) UpdateSuit(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req suitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	suit := req.toDomain(id)
	if err := h.suitSvc.UpdateSuit(r.Context(), actor, suit); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suit)
}

func (h *SuitHandler) DeleteSuit(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.suitSvc.DeleteSuit(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
