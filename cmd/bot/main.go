package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/descalante/interview-coach-bot/internal/adapters/discord"
	"github.com/descalante/interview-coach-bot/internal/adapters/llm"
	"github.com/descalante/interview-coach-bot/internal/app/games"
	"github.com/descalante/interview-coach-bot/internal/app/sched"
	"github.com/descalante/interview-coach-bot/internal/app/service"
	"github.com/descalante/interview-coach-bot/internal/app/tasks"
	"github.com/descalante/interview-coach-bot/internal/domain"
	"github.com/descalante/interview-coach-bot/internal/infra/config"
	"github.com/descalante/interview-coach-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	questionRepo := storage.NewQuestionRepo(db)
	historyRepo := storage.NewHistoryRepo(db)
	profileRepo := storage.NewProfileRepo(db)

	for _, qt := range []domain.InterviewType{domain.InterviewTechnical, domain.InterviewBehavioral, domain.InterviewSystemDesign} {
		if n, err := questionRepo.CountByType(context.Background(), qt); err == nil {
			log.Printf("banco de preguntas %s: %d", qt, n)
		}
	}

	// LLM (antes de los services que lo usan)
	completer, err := llm.New(llm.Config{
		Backend: cfg.LLMBackend,
		APIKey:  llmKey(cfg),
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
	})
	if err != nil {
		log.Fatal(err)
	}
	provider := llm.NewProvider(completer, cfg.LLMMaxTokens, cfg.LLMTemperature)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentsMessageContent
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	// Services
	msgr := discordrouter.NewTransport(s, cfg.DiscordGuild)
	store := service.NewSessionStore()
	interviewSvc := service.NewInterviewService(store, questionRepo, historyRepo, profileRepo, provider, msgr)
	resumeSvc := service.NewResumeService(msgr, provider)
	coachSvc := service.NewCoachService(provider)
	profileSvc := service.NewProfileService(profileRepo, historyRepo)
	gamesSvc := service.NewGamesService(
		msgr,
		games.DefaultRegistry(),
		time.Duration(cfg.InviteTimeoutSeconds)*time.Second,
		time.Duration(cfg.GraceAfterMinSeconds)*time.Second,
	)

	// Tareas programadas
	runner := sched.NewRunner(time.Minute)
	mustAdd := func(t sched.Task) {
		if err := runner.Add(t); err != nil {
			log.Fatal(err)
		}
	}
	mustAdd(tasks.DailyTip(provider, msgr, cfg.TipsChannelIDs))
	mustAdd(tasks.CheckIn(questionRepo, profileRepo, msgr, cfg.CheckinUserIDs))
	mustAdd(tasks.GameInvites(gamesSvc, cfg.GamesChannelID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)
	defer runner.Stop()

	// Router
	r := discordrouter.NewRouter(
		s,
		cfg.DiscordGuild,
		cfg.AdminRoleIDs,
		interviewSvc,
		resumeSvc,
		coachSvc,
		gamesSvc,
		profileSvc,
		runner,
	)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()
	log.Printf("✅ comandos registrados en guild %s", cfg.DiscordGuild)

	// Barrido de juegos e invitaciones colgadas
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				sctx, scancel := context.WithTimeout(ctx, 30*time.Second)
				gamesSvc.Sweep(sctx, now)
				resumeSvc.Sweep(now, 30*time.Minute)
				scancel()
			}
		}
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}

func llmKey(cfg config.Config) string {
	if cfg.LLMBackend == "openai" {
		return cfg.OpenAIAPIKey
	}
	return cfg.AnthropicAPIKey
}
