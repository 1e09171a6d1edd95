package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizroom-service/internal/app"
	"quizroom-service/internal/config"
	"quizroom-service/internal/infra/ai"
	"quizroom-service/internal/infra/memory"
	pgstore "quizroom-service/internal/infra/postgres"
	redisinfra "quizroom-service/internal/infra/redis"
	"quizroom-service/internal/infra/synth"
	transport "quizroom-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz room server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 12*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	bank := memory.NewStaticBank(memory.DefaultQuestions())

	var loader memory.QuestionLoader = bank
	var describer app.CatalogDescriber = bank
	if pool != nil {
		pgLoader := pgstore.NewQuestionLoader(pool)
		loader = pgLoader
		describer = pgLoader
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogProvider
	if redisClient != nil {
		catalog = redisinfra.NewCatalogCache(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogCache(loader, catalogTTL)
	}

	apiKey := cfg.AI.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("AI_API_KEY")
	}
	var aiProvider app.AIProvider
	if apiKey != "" {
		aiTimeout := config.TTLDuration(cfg.AI.Timeout, 30*time.Second)
		aiProvider = ai.NewProvider(cfg.AI.Endpoint, apiKey, cfg.AI.Model, aiTimeout)
	}

	selector := app.NewSelector(catalog, aiProvider, synth.NewGenerator())

	var registry app.RoomRegistry
	if redisClient != nil {
		registry = redisinfra.NewRoomRegistry(redisClient, redisTTL)
	} else {
		registry = memory.NewRoomRegistry()
	}

	service := app.NewRoomService(registry, selector, describer, cfg.Server.PublicURL)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz room service on :%s", finalPort)
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
