package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/photoflow/photoflow-go/internal/config"
	"github.com/photoflow/photoflow-go/internal/extract"
	"github.com/photoflow/photoflow-go/internal/handler"
	"github.com/photoflow/photoflow-go/internal/middleware"
	"github.com/photoflow/photoflow-go/internal/service"
	"github.com/photoflow/photoflow-go/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	st, err := store.Open(cfg)
	if err != nil {
		slog.Error("opening storage engine", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if mysqlStore, ok := st.(*store.MySQL); ok {
		if err := mysqlStore.EnsureSchema(context.Background()); err != nil {
			slog.Error("ensuring database schema", "error", err)
			os.Exit(1)
		}
	}

	authService := service.NewAuthService(st, cfg.SessionSecret, cfg.SessionTTL, cfg.AdminEmail)
	projectService := service.NewProjectService(st)
	backupService := service.NewBackupService(st)
	extractor := extract.NewHTTPClient(cfg.ExtractorURL)

	secureCookies := cfg.Env == "production"
	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL, secureCookies)
	projectHandler := handler.NewProjectHandler(projectService, extractor)
	portfolioHandler := handler.NewPortfolioHandler(projectService)
	adminHandler := handler.NewAdminHandler(authService, backupService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/v1/portfolio/{slug}", portfolioHandler.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.SessionSecret))

		r.Post("/api/v1/auth/logout", authHandler.HandleLogout)
		r.Get("/api/v1/auth/me", authHandler.HandleMe)
		r.Post("/api/v1/auth/password", authHandler.HandleChangePassword)
		r.Put("/api/v1/auth/profile", authHandler.HandleUpdateProfile)

		r.Get("/api/v1/projects", projectHandler.HandleList)
		r.Post("/api/v1/projects", projectHandler.HandleCreate)
		r.Get("/api/v1/projects/revenue", projectHandler.HandleRevenue)
		r.Post("/api/v1/projects/import", projectHandler.HandleImport)
		r.Post("/api/v1/projects/extract", projectHandler.HandleExtract)
		r.Put("/api/v1/projects/{id}", projectHandler.HandleUpdate)
		r.Patch("/api/v1/projects/{id}/status", projectHandler.HandleSetStatus)
		r.Delete("/api/v1/projects/{id}", projectHandler.HandleDelete)
		r.Post("/api/v1/projects/{id}/gallery", projectHandler.HandleAddGalleryImage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.AdminEmail))
			r.Get("/api/v1/admin/users", adminHandler.HandleListUsers)
			r.Get("/api/v1/admin/export", adminHandler.HandleExport)
			r.Post("/api/v1/admin/import", adminHandler.HandleImport)
			r.Post("/api/v1/admin/db/test", adminHandler.HandleTestConnection)
			r.Post("/api/v1/admin/db/schema", adminHandler.HandleCreateSchema)
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
