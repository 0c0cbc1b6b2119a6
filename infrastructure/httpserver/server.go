// Package httpserver exposes the messaging core over a JSON HTTP API.
// Routing and framing live here; every core operation receives the caller
// identity and validated input as explicit parameters.
package httpserver

import (
	"log/slog"
	"net/http"

	"courier/observability"
	"courier/repositories"
	"courier/services"

	"github.com/gorilla/mux"
)

type Server struct {
	authService    services.IAuthService
	messageService services.IMessageService
	searchService  services.ISearchService
	users          repositories.IUserRepository
	messages       repositories.IMessageRepository
	monitor        *observability.Monitor
	log            *slog.Logger
}

func NewServer(
	authService services.IAuthService,
	messageService services.IMessageService,
	searchService services.ISearchService,
	users repositories.IUserRepository,
	messages repositories.IMessageRepository,
	monitor *observability.Monitor,
	log *slog.Logger,
) *Server {
	return &Server{
		authService:    authService,
		messageService: messageService,
		searchService:  searchService,
		users:          users,
		messages:       messages,
		monitor:        monitor,
		log:            log,
	}
}

// Router wires public routes and the bearer-protected API.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(bearerAuth)
	protected.HandleFunc("/threads", s.handleListThreads).Methods(http.MethodGet)
	protected.HandleFunc("/messages", s.handleListMessages).Methods(http.MethodGet)
	protected.HandleFunc("/messages", s.handlePostMessage).Methods(http.MethodPost)
	protected.HandleFunc("/send", s.handleSend).Methods(http.MethodPost)
	protected.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	protected.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	return r
}
