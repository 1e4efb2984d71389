// @title           Resource Server API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"serwer-zasobow/internal/api"
	"serwer-zasobow/internal/config"
	"serwer-zasobow/internal/database"
	"serwer-zasobow/internal/mailer"
	"serwer-zasobow/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "serwer-zasobow/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool, wsHub)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := store.SeedSuperuser(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FullName); err != nil {
			log.Fatalf("Nie można utworzyć konta administratora: %v", err)
		}
		log.Printf("Konto administratora gotowe: %s", cfg.Admin.Email)
	}

	server := api.NewServer(cfg, store, mailer.NewLogMailer(), wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Serwer zasobów działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Post("/api/v1/auth/login", server.LoginHandler)
	r.Post("/api/v1/auth/refresh", server.RefreshTokenHandler)
	r.Post("/api/v1/auth/password-recovery/{email}", server.PasswordRecoveryHandler)
	r.Post("/api/v1/auth/reset-password", server.ResetPasswordHandler)
	r.Post("/api/v1/users/open", server.OpenRegistrationHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Put("/me", server.UpdateCurrentUserHandler)
		r.Get("/items", server.ListItemsHandler)
		r.Post("/items", server.CreateItemHandler)
		r.Get("/items/{itemId}", server.GetItemHandler)
		r.Put("/items/{itemId}", server.UpdateItemHandler)
		r.Delete("/items/{itemId}", server.DeleteItemHandler)
		r.Get("/events", server.GetEventsHandler)
		r.Get("/sessions", server.ListSessionsHandler)
		r.Post("/sessions/terminate_all", server.TerminateAllSessionsHandler)
		r.Delete("/sessions/{sessionId}", server.DeleteSessionHandler)
		r.Get("/users/{userId}", server.GetUserHandler)

		r.Group(func(r chi.Router) {
			r.Use(server.RequireSuperuser)
			r.Get("/users", server.ListUsersHandler)
			r.Post("/users", server.CreateUserHandler)
			r.Put("/users/{userId}", server.UpdateUserHandler)
		})
	})

	log.Printf("Uruchamianie serwera na %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
