package routes

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/DipakKumarChauhan/foodie-eyes/config"
	"github.com/DipakKumarChauhan/foodie-eyes/controllers"
	"github.com/DipakKumarChauhan/foodie-eyes/database"
	"github.com/DipakKumarChauhan/foodie-eyes/geocode"
	"github.com/DipakKumarChauhan/foodie-eyes/llm"
	auth "github.com/DipakKumarChauhan/foodie-eyes/middleware"
	"github.com/DipakKumarChauhan/foodie-eyes/places"
	"github.com/DipakKumarChauhan/foodie-eyes/services"
)

func SetupRouter(cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	discovery := services.NewDiscoveryService(llm.NewClient(), places.NewClient())
	agentController := controllers.NewAgentController(discovery)

	authService := services.NewAuthService(database.DB, []byte(cfg.JWTSecretKey))
	authController := controllers.NewAuthController(authService)

	geocodeController := controllers.NewGeocodeController(geocode.NewClient())

	// Public
	r.Post("/api/agent", agentController.Search)
	r.Post("/auth/register", authController.Register)
	r.Post("/auth/login", authController.Login)
	r.Get("/api/geocode/reverse", geocodeController.Reverse)

	// Per-account (Bearer JWT)
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticator([]byte(cfg.JWTSecretKey)))

		r.Get("/bookmarks", controllers.GetBookmarks)
		r.Post("/bookmarks", controllers.AddBookmark)
		r.Delete("/bookmarks/{name}", controllers.RemoveBookmark)

		r.Get("/history", controllers.GetHistory)
		r.Post("/history", controllers.AddHistory)

		r.Get("/location", controllers.GetSavedLocation)
		r.Put("/location", controllers.PutSavedLocation)
	})

	return r
}
