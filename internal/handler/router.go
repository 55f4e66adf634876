package handler

import (
	"net/http"

	"github.com/bhvr/bhvr-api-go/internal/middleware"
	"github.com/bhvr/bhvr-api-go/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const apiVersion = "1.0.0"

// RouterDeps are the collaborators the HTTP API is built from.
type RouterDeps struct {
	Auth        *service.AuthService
	Posts       *service.PostService
	Tokens      middleware.TokenVerifier
	CORSOrigins []string

	// AuthRPS and AuthBurst bound register/login attempts per client IP.
	AuthRPS   float64
	AuthBurst int
}

// NewRouter assembles the API routes.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.AuthRPS <= 0 {
		deps.AuthRPS = 5
	}
	if deps.AuthBurst <= 0 {
		deps.AuthBurst = 10
	}
	if len(deps.CORSOrigins) == 0 {
		deps.CORSOrigins = []string{"*"}
	}

	authHandler := NewAuthHandler(deps.Auth)
	postHandler := NewPostHandler(deps.Posts)
	requireAuth := middleware.JWTAuth(deps.Tokens)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "BHVR API Server",
			"version": apiVersion,
			"status":  "healthy",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
			writeData(w, http.StatusOK, "Hello BHVR!", nil)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(deps.AuthRPS, deps.AuthBurst))
				r.Post("/register", authHandler.HandleRegister)
				r.Post("/login", authHandler.HandleLogin)
			})

			r.With(requireAuth).Get("/profile", authHandler.HandleProfile)
			r.With(middleware.OptionalJWTAuth(deps.Tokens)).Post("/logout", authHandler.HandleLogout)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.HandleList)
			r.Get("/user/{userId}", postHandler.HandleListByUser)
			r.Get("/{id}", postHandler.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", postHandler.HandleCreate)
				r.Put("/{id}", postHandler.HandleUpdate)
				r.Delete("/{id}", postHandler.HandleDelete)
			})
		})
	})

	return r
}
