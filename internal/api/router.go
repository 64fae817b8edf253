package api

import (
	"github.com/buglab/bug-lab-be/internal/api/handlers"
	"github.com/buglab/bug-lab-be/internal/auth"
	"github.com/buglab/bug-lab-be/internal/config"
	"github.com/buglab/bug-lab-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	userService services.UserServiceProvider,
	scientistService services.ScientistServiceProvider,
	bugService services.BugServiceProvider,
	assignmentService services.AssignmentServiceProvider,
	sessionService services.SessionServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The session cookie requires credentialed CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, scientistService, sessionService)
	scientistHandler := handlers.NewScientistHandler(scientistService, assignmentService)
	bugHandler := handlers.NewBugHandler(bugService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(sessionService))
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/scientists", func(r chi.Router) {
		r.Get("/", scientistHandler.GetAll)
		r.Post("/", scientistHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", scientistHandler.Get)
			r.Patch("/", scientistHandler.Update)
			r.Delete("/", scientistHandler.Delete)
			r.Post("/assign", scientistHandler.Assign)
			r.Post("/unassign", scientistHandler.Unassign)
			r.Get("/bugs", scientistHandler.Bugs)
		})
	})

	r.Route("/bugs", func(r chi.Router) {
		r.Get("/", bugHandler.GetAll)
		r.Post("/", bugHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", bugHandler.Get)
			r.Patch("/", bugHandler.Update)
			r.Delete("/", bugHandler.Delete)
		})
	})

	return r
}
