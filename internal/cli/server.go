package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"campus-quiz-service/internal/app"
	"campus-quiz-service/internal/auth"
	"campus-quiz-service/internal/config"
	"campus-quiz-service/internal/infra/memory"
	pgstore "campus-quiz-service/internal/infra/postgres"
	redisinfra "campus-quiz-service/internal/infra/redis"
	transport "campus-quiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret not configured")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	// Repositories: postgres when configured, otherwise the in-memory store
	// (useful for demos and local hacking, data is lost on restart).
	var (
		catalogRepo app.CatalogRepository
		scoreRepo   app.ScoreRepository
		accountRepo app.AccountRepository
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := pgstore.NewStore(pool)
		catalogRepo, scoreRepo, accountRepo = store, store, store
	} else {
		log.Printf("postgres not configured, using in-memory store")
		store := memory.NewStore()
		catalogRepo, scoreRepo, accountRepo = store, store, store
	}

	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)
	var answers app.AnswerResolver
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		answers = redisinfra.NewAnswerCache(client, catalogRepo, cacheTTL)
	} else {
		answers = memory.NewAnswerCache(catalogRepo, cacheTTL)
	}

	gate := auth.NewGate(cfg.Auth.Secret, config.TTLDuration(cfg.Auth.TokenTTL, time.Hour))
	feed := app.NewScoreFeed()

	handler := transport.New(transport.Deps{
		Gate:     gate,
		Catalog:  app.NewCatalogService(catalogRepo, answers),
		Attempts: app.NewAttemptService(answers, catalogRepo, scoreRepo, feed),
		Accounts: app.NewAccountService(accountRepo, gate),
		Feed:     feed,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz backend on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
