package app

import (
	"net/http"

	handlers "gramm/internal/handler"
	"gramm/internal/middleware"
	"gramm/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *handlers.Handlers, auth service.AuthService) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.StatsHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/webhook/", h.ThumbnailWebhook).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/activate/{token}", h.Activate).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset", h.RequestPasswordReset).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset/{token}", h.PasswordReset).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/auth/social/{provider}", h.SocialLogin).Methods(http.MethodGet)
	api.HandleFunc("/auth/social/{provider}/callback", h.SocialCallback).Methods(http.MethodGet)

	api.HandleFunc("/feed", h.Feed).Methods(http.MethodGet)

	private := api.NewRoute().Subrouter()
	private.Use(middleware.RequireAuth)

	private.HandleFunc("/me", h.GetCurrentUser).Methods(http.MethodGet)
	private.HandleFunc("/profile/{userID}", h.Profile).Methods(http.MethodGet)
	private.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	private.HandleFunc("/posts/{postID}/like", h.ToggleLike).Methods(http.MethodPost)
	private.HandleFunc("/follow/{authorID}", h.Follow).Methods(http.MethodPost, http.MethodDelete)

	return middleware.Chain(r,
		middleware.AuthMiddleware(auth),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)
}
