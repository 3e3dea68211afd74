package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taskstack/taskstack-be/internal/api/handlers"
	"github.com/taskstack/taskstack-be/internal/auth"
	"github.com/taskstack/taskstack-be/internal/config"
	"github.com/taskstack/taskstack-be/internal/services"
	"github.com/taskstack/taskstack-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, codec *auth.TokenCodec, hub *websocket.Hub, userService services.UserServiceProvider, taskService services.TaskServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the browser client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	userHandler := handlers.NewUserHandler(userService, codec, cfg.JWTMaxAge, cfg.AppEnv == "production")
	taskHandler := handlers.NewTaskHandler(taskService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	authenticate := auth.Middleware(codec, userService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthchecker", healthHandler.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.With(authenticate).Get("/logout", userHandler.Logout)
		})

		r.With(authenticate).Get("/users/me", userHandler.GetMe)

		r.Route("/tasks", func(r chi.Router) {
			r.Use(authenticate)

			// Task event feed
			r.Get("/events", wsHandler.Serve)

			r.Get("/", taskHandler.GetAll)
			r.Post("/", taskHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
			})
		})
	})

	return r
}
