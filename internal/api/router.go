package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/salonx-be/internal/api/handlers"
	"github.com/isdelr/salonx-be/internal/auth"
	"github.com/isdelr/salonx-be/internal/gate"
	"github.com/isdelr/salonx-be/internal/services"
)

// Options carries the HTTP-facing settings of the router.
type Options struct {
	AllowedOrigins []string
	Cookies        auth.CookieOptions
	UniformErrors  bool
}

// Page titles for the gated front-end routes.
var pageTitles = map[string]string{
	"/":                     "Welcome",
	"/home":                 "Home",
	"/auth/customer/login":  "Customer Login",
	"/auth/customer/signup": "Customer Signup",
	"/verifyemail":          "Verify Email",
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	opts Options,
	db *sql.DB,
	routeGate *gate.Gate,
	codec *auth.Codec,
	revoker auth.Revoker,
	userService services.UserServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// The gate sees every method on intercepted paths, before routing.
	r.Use(routeGate.Middleware)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, opts.Cookies, opts.UniformErrors)
	eventHandler := handlers.NewEventHandler(eventService)
	pageHandler := handlers.NewPageHandler()
	healthHandler := handlers.NewHealthHandler(db)

	requireAuth := auth.RequireAuth(codec, revoker)

	r.Get("/healthz", healthHandler.Check)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/login", userHandler.Login)
		r.Post("/signup", userHandler.Signup)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", userHandler.GetMe)
			r.Get("/me/events", eventHandler.GetMine)
			r.Post("/logout", userHandler.Logout)
		})
	})

	// Front-end pages
	for path, title := range pageTitles {
		r.Get(path, pageHandler.Static(pageName(path), title))
	}
	r.With(requireAuth).Get("/profile", pageHandler.Profile)

	return r
}

func pageName(path string) string {
	if path == "/" {
		return "welcome"
	}
	return path[1:]
}
