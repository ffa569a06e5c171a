package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"suit-rental-backend/internal/service"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Suits        service.SuitService
	Availability service.AvailabilityService
	Rentals      service.RentalService
}

// NewRouter registers every route under /api/v1. Route names key the
// security levels in config.EndpointSecurityConfig.
func NewRouter(svc Services) *mux.Router {
	auth := NewAuthHandler(svc.Auth)
	users := NewUserHandler(svc.Users)
	suits := NewSuitHandler(svc.Suits, svc.Availability)
	rentals := NewRentalHandler(svc.Rentals)

	router := mux.NewRouter()
	router.Use(Recover, RequestLogger)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(svc.Auth).Handler)

	api.HandleFunc("/health", Health).Methods(http.MethodGet).Name("health")
	api.HandleFunc("/register", auth.Register).Methods(http.MethodPost).Name("auth.register")
	api.HandleFunc("/login", auth.Login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/me", users.GetProfile).Methods(http.MethodGet).Name("users.me")

	api.HandleFunc("/admin/users", users.ListClients).Methods(http.MethodGet).Name("admin.users.list")

	api.HandleFunc("/admin/suits", suits.ListMySuits).Methods(http.MethodGet).Name("admin.suits.list")
	api.HandleFunc("/admin/suits", suits.AddSuit).Methods(http.MethodPost).Name("admin.suits.create")
	api.HandleFunc("/admin/suits/{id:[0-9]+}", suits.UpdateSuit).Methods(http.MethodPut).Name("admin.suits.update")
	api.HandleFunc("/admin/suits/{id:[0-9]+}", suits.DeleteSuit).Methods(http.MethodDelete).Name("admin.suits.delete")

	api.HandleFunc("/admin/rentals", rentals.ListAdminRentals).Methods(http.MethodGet).Name("admin.rentals.list")
	api.HandleFunc("/admin/rentals", rentals.CreateRental).Methods(http.MethodPost).Name("admin.rentals.create")
	api.HandleFunc("/admin/rentals/{id:[0-9]+}", rentals.UpdateRental).Methods(http.MethodPut).Name("admin.rentals.update")
	api.HandleFunc("/admin/rentals/{id:[0-9]+}", rentals.DeleteRental).Methods(http.MethodDelete).Name("admin.rentals.delete")

	api.HandleFunc("/suits", suits.ListSuits).Methods(http.MethodGet).Name("suits.list")
	api.HandleFunc("/suits/{id:[0-9]+}", suits.GetSuit).Methods(http.MethodGet).Name("suits.get")
	api.HandleFunc("/suits/{id:[0-9]+}/availability", suits.Availability).Methods(http.MethodGet).Name("suits.availability")
	api.HandleFunc("/my-rentals", rentals.ListClientRentals).Methods(http.MethodGet).Name("rentals.mine")
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.GetRental).Methods(http.MethodGet).Name("rentals.get")

	return router
}

// Health is the liveness check.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
