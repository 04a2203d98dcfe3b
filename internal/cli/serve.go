package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"challenge-quiz-service/internal/app"
	"challenge-quiz-service/internal/auth"
	"challenge-quiz-service/internal/config"
	"challenge-quiz-service/internal/domain"
	"challenge-quiz-service/internal/infra/memory"
	pginfra "challenge-quiz-service/internal/infra/postgres"
	redisinfra "challenge-quiz-service/internal/infra/redis"
	transport "challenge-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz evaluation server",
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var source app.ProblemRepository = memory.NewStaticProblemRepository(sampleProblems())
	if pool != nil {
		source = pginfra.NewProblemRepository(pool)
	}

	cacheTTL := config.TTLDuration(cfg.Problems.CacheTTL, 10*time.Minute)
	var problems app.ProblemRepository
	if redisClient != nil {
		problems = redisinfra.NewProblemCache(redisClient, source, cacheTTL)
	} else {
		problems = memory.NewProblemCache(source, cacheTTL)
	}

	var ledger app.ResponseLedger = memory.NewResponseLedger()
	if pool != nil {
		ledger = pginfra.NewResponseLedger(pool)
	}

	hub := app.NewStandingsHub()
	service := app.NewEvaluationService(problems, ledger, hub)

	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 8*time.Hour)
	authService := auth.NewService(cfg.Auth.Secret, tokenTTL)

	handler := transport.NewHandler(service, authService, hub)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz evaluation service on :%s", finalPort)
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

// sampleProblems provides demo content for redis/postgres-less runs; real
// deployments read problems from the platform's document store.
func sampleProblems() map[string]domain.Problem {
	return map[string]domain.Problem{
		"problem-1": {
			ID:    "problem-1",
			Title: "Design a last-mile delivery route",
			Quiz: &domain.Quiz{
				Enabled:      true,
				Title:        "Routing basics",
				TimeLimit:    15,
				PassingScore: 70,
				Questions: []domain.Question{
					{
						Text: "Which structure models city intersections best?",
						Kind: domain.MultipleChoice,
						Options: []domain.Option{
							{Text: "Stack"},
							{Text: "Graph", IsCorrect: true},
							{Text: "Queue"},
						},
						Points: 2,
					},
					{
						Text:          "Name the classic shortest-path algorithm.",
						Kind:          domain.FreeText,
						CorrectAnswer: "Dijkstra",
						Points:        2,
					},
					{
						Text:          "Greedy routing always finds the optimum.",
						Kind:          domain.Boolean,
						CorrectAnswer: "false",
						Points:        1,
					},
				},
			},
		},
	}
}
