package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feud-quiz-service/internal/app"
	"feud-quiz-service/internal/config"
	"feud-quiz-service/internal/domain"
	"feud-quiz-service/internal/infra/memory"
	pgloader "feud-quiz-service/internal/infra/postgres"
	redisinfra "feud-quiz-service/internal/infra/redis"
	transport "feud-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const defaultQuestionSetID = "default"

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz game server",
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

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questionRepo app.QuestionSetRepository
	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(loader, questionTTL)
	}

	retention := config.TTLDuration(cfg.Game.Retention, time.Hour)
	sweepInterval := config.TTLDuration(cfg.Game.SweepInterval, 10*time.Minute)

	var registry app.GameRegistry
	if redisClient != nil {
		r := redisinfra.NewGameRegistry(redisClient, retention)
		r.StartSweeper(ctx, sweepInterval, retention)
		registry = r
	} else {
		r := memory.NewGameRegistry()
		r.StartSweeper(ctx, sweepInterval, retention)
		registry = r
	}

	timing := app.DefaultTiming()
	timing.RevealDelay = config.TTLDuration(cfg.Game.RevealDelay, timing.RevealDelay)
	timing.AdvanceDelay = config.TTLDuration(cfg.Game.AdvanceDelay, timing.AdvanceDelay)
	timing.TossUpRevealDelay = config.TTLDuration(cfg.Game.TossUpRevealDelay, timing.TossUpRevealDelay)

	setID := cfg.Questions.SetID
	if setID == "" {
		setID = defaultQuestionSetID
	}

	service := app.NewGameService(registry, questionRepo, setID, timing)
	wsHandler := transport.NewWSHandler(service)
	restHandler := transport.NewRESTHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/api/create-game", restHandler.CreateGame)
	mux.HandleFunc("/api/join-game", restHandler.JoinGame)
	mux.HandleFunc("/", restHandler.Stats)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz game service on :%s", finalPort)
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

// sampleQuestionSets provides the built-in bank used when postgres is not
// configured: six beginner boards, seven intermediate (one becomes the
// toss-up) and six advanced.
func sampleQuestionSets() map[string][]domain.Question {
	return map[string][]domain.Question{
		defaultQuestionSetID: {
			q(domain.LevelIntermediate, "", "Name something people do when they wake up",
				a("Check phone", 50), a("Brush teeth", 30), a("Stretch", 20)),

			q(domain.LevelBeginner, "Literature", "Name a famous Shakespeare play",
				a("Romeo and Juliet", 50), a("Hamlet", 40), a("Macbeth", 30)),
			q(domain.LevelBeginner, "Geography", "Name a country in Europe",
				a("France", 50), a("Germany", 40), a("Italy", 30)),
			q(domain.LevelBeginner, "Food & Drinks", "Name a popular breakfast food",
				a("Eggs", 50), a("Bacon", 40), a("Cereal", 30)),
			q(domain.LevelBeginner, "Movies", "Name a superhero from Marvel or DC",
				a("Spider-Man", 50), a("Batman", 40), a("Superman", 30)),
			q(domain.LevelBeginner, "Science", "Name a planet in our solar system",
				a("Earth", 50), a("Mars", 40), a("Jupiter", 30)),
			q(domain.LevelBeginner, "Sports", "Name a popular sport played worldwide",
				a("Soccer", 50), a("Basketball", 40), a("Tennis", 30)),

			q(domain.LevelIntermediate, "Animals", "Name a type of wild cat",
				a("Lion", 50), a("Tiger", 40), a("Leopard", 30)),
			q(domain.LevelIntermediate, "Technology", "Name a popular social media platform",
				a("Facebook", 50), a("Instagram", 40), a("Twitter", 30)),
			q(domain.LevelIntermediate, "History", "Name a famous historical monument",
				a("Taj Mahal", 50), a("Great Wall of China", 40), a("Eiffel Tower", 30)),
			q(domain.LevelIntermediate, "Music", "Name a popular music genre",
				a("Pop", 50), a("Rock", 40), a("Hip Hop", 30)),
			q(domain.LevelIntermediate, "Transportation", "Name a mode of transportation",
				a("Car", 50), a("Bus", 40), a("Train", 30)),
			q(domain.LevelIntermediate, "Colors", "Name a primary or secondary color",
				a("Red", 50), a("Blue", 40), a("Yellow", 30)),

			q(domain.LevelAdvanced, "Professions", "Name a common profession or job",
				a("Teacher", 50), a("Doctor", 40), a("Engineer", 30)),
			q(domain.LevelAdvanced, "Weather", "Name a type of weather condition",
				a("Sunny", 50), a("Rainy", 40), a("Cloudy", 30)),
			q(domain.LevelAdvanced, "Household Items", "Name a common household appliance",
				a("Refrigerator", 50), a("Washing Machine", 40), a("Microwave", 30)),
			q(domain.LevelAdvanced, "Board Games", "Name a popular board game",
				a("Monopoly", 50), a("Scrabble", 40), a("Chess", 30)),
			q(domain.LevelAdvanced, "Fruits", "Name a popular fruit",
				a("Apple", 50), a("Banana", 40), a("Orange", 30)),
			q(domain.LevelAdvanced, "School Subjects", "Name a common school subject",
				a("Mathematics", 50), a("English", 40), a("Science", 30)),
		},
	}
}

func q(level domain.QuestionLevel, category, text string, answers ...domain.Answer) domain.Question {
	return domain.Question{Level: level, Category: category, Text: text, Answers: answers}
}

func a(text string, score int) domain.Answer {
	return domain.Answer{Text: text, Score: score}
}
