package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"mcq-practice-service/internal/app"
	"mcq-practice-service/internal/domain"
	pgstore "mcq-practice-service/internal/infra/postgres"
	pgmigrations "mcq-practice-service/internal/infra/postgres/migrations"
	infraredis "mcq-practice-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openBun(t, ctx, pgURL)
	defer db.Close()
	seedQuestions(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	questionStore := pgstore.NewQuestionStore(pool)
	questions := infraredis.NewQuestionRepository(redisClient, questionStore, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	ratings := pgstore.NewRatingStore(pool)
	service := app.NewQuizService(sessions, questions, ratings)

	set, progress, err := service.LoadQuestions(ctx, "s1", "Operating System", "gpt")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(set.Questions) != 2 || set.SubjectID == 0 || set.ModelID == 0 {
		t.Fatalf("unexpected aggregated set: %+v", set)
	}
	if progress.State != domain.StateLoaded {
		t.Fatalf("expected loaded, got %+v", progress)
	}
	for _, q := range set.Questions {
		if q.OptionText(q.CorrectOption) == "" {
			t.Fatalf("correct option %q not among options of question %d", q.CorrectOption, q.ID)
		}
	}

	result, progress, err := service.SubmitAnswer(ctx, "s1", set.Questions[0].ID, set.Questions[0].CorrectOption)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !result.Correct || progress.Score != 1 {
		t.Fatalf("expected correct answer, got %+v / %+v", result, progress)
	}
	if _, progress, err = service.SubmitAnswer(ctx, "s1", set.Questions[1].ID, "Z"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if progress.State != domain.StateCompleted || progress.Score != 1 {
		t.Fatalf("expected completed 1/2, got %+v", progress)
	}

	progress, err = service.SubmitRating(ctx, "s1", domain.RatingSubmission{
		GrammaticalFluency:       4,
		Answerability:            4,
		Complexity:               3,
		Relevance:                5,
		RepeatabilityInQuestions: 2,
		RepeatabilityInAnswers:   2,
	})
	if err != nil {
		t.Fatalf("rating: %v", err)
	}
	if progress.State != domain.StateRated {
		t.Fatalf("expected rated, got %+v", progress)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM ratings`).Scan(&count); err != nil {
		t.Fatalf("count ratings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 rating row, got %d", count)
	}
	var subjectName string
	var submittedAt time.Time
	if err := db.QueryRowContext(ctx, `SELECT subject_name, submitted_at FROM ratings`).Scan(&subjectName, &submittedAt); err != nil {
		t.Fatalf("read rating: %v", err)
	}
	if subjectName != "Operating System" || submittedAt.IsZero() {
		t.Fatalf("unexpected rating row: %s %v", subjectName, submittedAt)
	}
}

func TestUnknownPairYieldsEmptySet(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	db := openBun(t, ctx, pgURL)
	defer db.Close()
	seedQuestions(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	set, err := pgstore.NewQuestionStore(pool).FetchQuestionSet(ctx, "Algebra", "gpt")
	if err != nil {
		t.Fatalf("expected empty set, got error %v", err)
	}
	if len(set.Questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(set.Questions))
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "mcq", "POSTGRES_PASSWORD": "mcqpass", "POSTGRES_DB": "mcqdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://mcq:mcqpass@%s:%s/mcqdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func openBun(t *testing.T, ctx context.Context, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedQuestions(t *testing.T, ctx context.Context, db *bun.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO subjects (subject_name) VALUES ('Operating System')`,
		`INSERT INTO models (model_name) VALUES ('gpt')`,
		`INSERT INTO questions (question_text, subject_id, model_id)
		 SELECT 'Which scheduling policy can starve long jobs?', s.subject_id, m.model_id
		 FROM subjects s, models m WHERE s.subject_name='Operating System' AND m.model_name='gpt'`,
		`INSERT INTO questions (question_text, subject_id, model_id)
		 SELECT 'What does a TLB cache?', s.subject_id, m.model_id
		 FROM subjects s, models m WHERE s.subject_name='Operating System' AND m.model_name='gpt'`,
		`INSERT INTO options (question_id, option_label, option_text)
		 SELECT question_id, 'A', 'Round robin' FROM questions WHERE question_text LIKE 'Which scheduling%'`,
		`INSERT INTO options (question_id, option_label, option_text)
		 SELECT question_id, 'B', 'Shortest job first' FROM questions WHERE question_text LIKE 'Which scheduling%'`,
		`INSERT INTO options (question_id, option_label, option_text)
		 SELECT question_id, 'A', 'Virtual-to-physical address translations' FROM questions WHERE question_text LIKE 'What does a TLB%'`,
		`INSERT INTO options (question_id, option_label, option_text)
		 SELECT question_id, 'B', 'Disk blocks' FROM questions WHERE question_text LIKE 'What does a TLB%'`,
		`INSERT INTO answers (question_id, correct_option)
		 SELECT question_id, 'B' FROM questions WHERE question_text LIKE 'Which scheduling%'`,
		`INSERT INTO answers (question_id, correct_option)
		 SELECT question_id, 'A' FROM questions WHERE question_text LIKE 'What does a TLB%'`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed: %v\n%s", err, stmt)
		}
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
