package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub-service/internal/app"
	"learnhub-service/internal/chat"
	"learnhub-service/internal/config"
	"learnhub-service/internal/domain"
	"learnhub-service/internal/infra/memory"
	pgcatalog "learnhub-service/internal/infra/postgres"
	rediscatalog "learnhub-service/internal/infra/redis"
	transport "learnhub-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the learnhub server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("config %s not readable (%v), using defaults", configPath, err)
		cfg = config.Default()
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var loader memory.CatalogLoader = memory.NewStaticCatalog(sampleQuizzes(), sampleMissions(), sampleStoreItems())
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgcatalog.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogRepository
	if redisClient != nil {
		catalog = rediscatalog.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	missions, err := catalog.ListMissions(ctx)
	if err != nil {
		return err
	}
	items, err := catalog.ListItems(ctx)
	if err != nil {
		return err
	}

	game := app.NewGameService(missions, items)
	game.OnBalanceChange(func(old, new int) {
		log.Printf("balance changed: %d -> %d", old, new)
	})
	game.OnMissionCompleted(func(m domain.Mission) {
		log.Printf("mission completed: %s", m.ID)
	})

	sweepInterval := config.TTLDuration(cfg.Game.SweepInterval, time.Minute)
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	game.StartSweeper(sweepCtx, sweepInterval)

	bonus := cfg.Game.CompletionBonus
	if bonus == 0 {
		bonus = 25
	}
	rules := app.RewardRules{
		CompletionMissionID: missionIDComplete,
		PerfectMissionID:    missionIDPerfect,
		StreakMissionID:     missionIDStreak,
		CompletionBonus:     bonus,
	}

	var arenas app.ArenaRepository
	if redisClient != nil {
		arenas = rediscatalog.NewArenaStore(redisClient, redisTTL)
	} else {
		arenas = memory.NewArenaStore()
	}

	assistant := chat.New(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.Model, chatPreamble(cfg.Chat.AppName))

	wsHandler := transport.NewWSHandler(catalog, game, rules)
	arenaHandler := transport.NewArenaHandler(arenas, catalog, app.BotConfig{
		Count:    3,
		Accuracy: 0.6,
		MinDelay: 2 * time.Second,
		MaxDelay: 8 * time.Second,
	})
	apiHandler := transport.NewAPIHandler(game, assistant)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws/quiz", wsHandler.ServeWS)
	mux.HandleFunc("/ws/arena", arenaHandler.ServeWS)
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting learnhub service on :%s", finalPort)
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

func chatPreamble(appName string) string {
	return "You are the study assistant for " + appName + ", an educational app. " +
		"Help learners with course content, quizzes, and study tips. Keep answers short and friendly."
}
