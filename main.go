package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/pracsphere/tasks/internal/config"
	"github.com/pracsphere/tasks/internal/handler"
	"github.com/pracsphere/tasks/internal/repository"
)

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initPool(ctx context.Context, cfg *config.Config) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database_config_invalid", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		slog.Error("database_init_failed", "error", err)
		os.Exit(1)
	}

	//check the connection is alive before serving
	if err := pool.Ping(ctx); err != nil {
		slog.Error("database_ping_failed", "error", err)
		os.Exit(1)
	}

	slog.Info("database_init_success")
	return pool
}

func loggerMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		//logging completion of a request
		slog.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"ip", r.RemoteAddr,
			//imp : how long does it take a req to complete
			"duration", time.Since(start).String(),
		)
	})
}

func routing(h *handler.TaskHandler, auth *handler.Auth, pool *pgxpool.Pool) http.Handler {
	r := chi.NewRouter()

	r.Get("/auth/google", handler.BeginGoogleAuth)
	r.Get("/auth/google/callback", auth.GoogleCallback)
	r.Get("/logout", handler.Logout)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	//only a caller with a valid session can reach these routes
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware)
		pr.Get("/tasks", h.ListTasks)
		pr.Post("/tasks", h.CreateTask)
		pr.Patch("/tasks/{id}", h.UpdateTaskStatus)
		pr.Delete("/tasks/{id}", h.DeleteTask)
	})

	return r
}

/*
gothic keeps a temp cookie so it can verify the login round trip was
started by this app. Protection from cross site request forgery.
*/
func setupGothic(cfg *config.Config) {
	goth.UseProviders(
		google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL, "email", "profile"),
	)

	maxAge := 86400 * 30 //30 days
	isProd := false      //set to true for https

	store := sessions.NewCookieStore([]byte(cfg.JWTSecret))
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = isProd

	gothic.Store = store
}

func setupSlog() {
	//Json handler that writes to standard out
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug, //log debug and above
		AddSource: true,            //adds file name and line number
	})

	//Intialise new logger and set it as default for the server
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

func main() {

	//structured logging
	setupSlog()

	cfg := loadConfig()

	ctx := context.Background()
	pool := initPool(ctx, cfg)
	defer pool.Close()

	repo, err := repository.NewTaskRepo(ctx, pool)
	if err != nil {
		slog.Error("repository_creation_failed", "error", err)
		os.Exit(1)
	}
	h := handler.NewTaskHandler(repo)

	//authentication
	auth := handler.NewAuth(cfg.JWTSecret)
	setupGothic(cfg)

	//routing
	mux := routing(h, auth, pool)

	//middleware
	wrappedMux := loggerMW(mux)

	slog.Info("server_listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, wrappedMux); err != nil {
		slog.Error("server_start_failed", "error", err)
		os.Exit(1)
	}
}
