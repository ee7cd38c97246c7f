package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcq-practice-service/internal/app"
	"mcq-practice-service/internal/config"
	"mcq-practice-service/internal/domain"
	"mcq-practice-service/internal/infra/memory"
	pgstore "mcq-practice-service/internal/infra/postgres"
	redisinfra "mcq-practice-service/internal/infra/redis"
	transport "mcq-practice-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the MCQ practice server",
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
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	samples := sampleQuestionSets()
	var source memory.QuestionSource = memory.NewStaticQuestionSource(samples)
	var catalog transport.CatalogReader = memory.NewStaticCatalogFromSets(samples)
	var recorder app.RatingRecorder = memory.NewRatingLog()
	if pool != nil {
		source = pgstore.NewQuestionStore(pool)
		catalog = pgstore.NewCatalogStore(pool)
		recorder = pgstore.NewRatingStore(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, source, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(source, questionTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	service := app.NewQuizService(sessions, questions, recorder)
	apiServer := transport.NewServer(questions, recorder, catalog, service)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      apiServer.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting mcq practice service on :%s", finalPort)
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

// sampleQuestionSets provides a minimal question source for running
// without Postgres; production wiring replaces it with the relational
// aggregator.
func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"Operating System|deepseek/deepseek-r1": {
			SubjectID:   1,
			SubjectName: "Operating System",
			ModelID:     1,
			ModelName:   "deepseek/deepseek-r1",
			Questions: []domain.Question{
				{
					ID:            1,
					Text:          "Which scheduling policy can starve long jobs?",
					CorrectOption: "B",
					Options: []domain.Option{
						{Label: "A", Text: "Round robin"},
						{Label: "B", Text: "Shortest job first"},
						{Label: "C", Text: "First come first served"},
					},
				},
				{
					ID:            2,
					Text:          "What does a TLB cache?",
					CorrectOption: "A",
					Options: []domain.Option{
						{Label: "A", Text: "Virtual-to-physical address translations"},
						{Label: "B", Text: "Disk blocks"},
						{Label: "C", Text: "Interrupt vectors"},
					},
				},
			},
		},
	}
}
