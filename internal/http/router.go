package httpx

import (
	"encoding/json"
	"net/http"

	"userhub/internal/config"
	"userhub/internal/http/handlers"
	middlewarex "userhub/internal/http/middleware"
	profilesvc "userhub/internal/services/profile"
	usersvc "userhub/internal/services/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config         config.Cfg
	UserService    *usersvc.Service
	ProfileService *profilesvc.Service
	Redis          *redis.Client // nil disables rate limiting
}

// NewRouter creates the HTTP router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarex.RequestLogger)
	r.Use(chimw.Recoverer)
	if deps.Redis != nil {
		r.Use(middlewarex.RateLimit(deps.Redis, deps.Config.Sec.RateLimitPerMin))
	}

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Welcome to the User & Profile Service.",
		})
	})

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"store":  deps.Config.DB.Driver,
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", handlers.CreateUser(deps.UserService))
		r.Get("/", handlers.ListUsers(deps.UserService))
		r.Get("/{id}", handlers.GetUser(deps.UserService))
		r.Patch("/{id}", handlers.UpdateUser(deps.UserService))
		r.Delete("/{id}", handlers.DeleteUser(deps.UserService))
	})

	r.Route("/profiles", func(r chi.Router) {
		r.Post("/", handlers.CreateProfile(deps.ProfileService))
		r.Get("/", handlers.ListProfiles(deps.ProfileService))
		r.Get("/{id}", handlers.GetProfile(deps.ProfileService))
		r.Patch("/{id}", handlers.UpdateProfile(deps.ProfileService))
		r.Delete("/{id}", handlers.DeleteProfile(deps.ProfileService))
	})

	return r
}
