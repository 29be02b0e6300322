package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/speakaussie/server/adapters/daily"
	"github.com/speakaussie/server/adapters/llm"
	"github.com/speakaussie/server/adapters/memory"
	storemongo "github.com/speakaussie/server/adapters/mongo"
	"github.com/speakaussie/server/adapters/pipeline"
	"github.com/speakaussie/server/adapters/stt"
	"github.com/speakaussie/server/adapters/tts"
	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
	"github.com/speakaussie/server/internal/api"
	"github.com/speakaussie/server/internal/auth"
	"github.com/speakaussie/server/internal/ws"
	"github.com/speakaussie/server/usecase"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Storage: MongoDB when configured, in-memory otherwise.
	users, subscriptions, sessions, usage, transactor, cleanup := buildStorage(logger)
	defer cleanup()

	// Authentication
	tokens, err := auth.NewTokenManagerFromEnv()
	if err != nil {
		logger.Fatal("Failed to initialize token manager", zap.Error(err))
	}

	catalog := entities.DefaultPlanCatalog()

	// Initialize usecase services
	authService := usecase.NewAuthService(users, subscriptions, tokens)
	sessionService := usecase.NewSessionService(catalog, sessions, subscriptions, usage, transactor)
	usageService := usecase.NewUsageService(catalog, subscriptions, usage)
	voiceService := usecase.NewVoiceService(buildVoiceDeps(logger))

	// Live usage feed
	feed := ws.NewFeed(usageService, logger)
	go feed.Run()
	sessionService.SetUsageNotifier(feed)

	// Initialize API routes
	handler := api.NewHandler(authService, sessionService, usageService, voiceService, logger)
	api.InitRoutes(e, handler, tokens, feed, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	feed.Stop()

	logger.Info("Server exited")
}

// buildStorage wires the repository set. MONGODB_URI selects MongoDB;
// without it the process runs on the in-memory store, which loses all data
// on restart and is only meant for local development.
func buildStorage(logger *zap.Logger) (
	repositories.UserRepository,
	repositories.SubscriptionRepository,
	repositories.SessionRepository,
	repositories.UsageRepository,
	repositories.Transactor,
	func(),
) {
	if os.Getenv("MONGODB_URI") == "" {
		logger.Warn("MONGODB_URI not set, using in-memory storage")
		store := memory.NewStore()
		return store.Users(), store.Subscriptions(), store.Sessions(), store.Usage(), store, func() {}
	}

	client, err := storemongo.NewClient(logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	users := storemongo.NewUserRepository(client.Database)
	subscriptions := storemongo.NewSubscriptionRepository(client.Database)
	sessions := storemongo.NewSessionRepository(client.Database)
	usage := storemongo.NewUsageRepository(client.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, ensure := range []func(context.Context) error{
		users.EnsureIndexes,
		subscriptions.EnsureIndexes,
		sessions.EnsureIndexes,
		usage.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Fatal("Failed to create MongoDB indexes", zap.Error(err))
		}
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	return users, subscriptions, sessions, usage, storemongo.NewTransactionManager(client), cleanup
}

// buildVoiceDeps assembles the vendor adapters from the environment. Each
// vendor is optional; a missing key leaves that capability unavailable and
// the voice endpoints report it through /api/voice/status.
func buildVoiceDeps(logger *zap.Logger) (
	repositories.RoomProvisioner,
	usecase.BotLauncher,
	repositories.SpeechToText,
	repositories.TextToSpeech,
	repositories.ScenarioGenerator,
	*zap.Logger,
) {
	useMocks := os.Getenv("VOICE_MOCKS") == "true"

	var rooms repositories.RoomProvisioner
	if key := os.Getenv("DAILY_API_KEY"); key != "" {
		provisioner, err := daily.NewProvisioner(daily.Config{APIKey: key}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Daily provisioner", zap.Error(err))
		}
		rooms = provisioner
	}

	var bot usecase.BotLauncher
	if url := os.Getenv("PIPELINE_RUNNER_URL"); url != "" {
		launcher, err := pipeline.NewLauncher(url, logger)
		if err != nil {
			logger.Fatal("Failed to initialize pipeline launcher", zap.Error(err))
		}
		bot = launcher
	}

	var speechToText repositories.SpeechToText
	switch {
	case useMocks:
		speechToText = stt.NewMockSpeechToText(logger)
	case os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "":
		speechToText = stt.NewGoogleSpeechToText(logger)
	}

	var textToSpeech repositories.TextToSpeech
	switch {
	case useMocks:
		textToSpeech = tts.NewMockTextToSpeech(logger)
	case os.Getenv("FISH_API_KEY") != "":
		fish, err := tts.NewFishAudioTTS(tts.FishAudioConfig{
			APIKey:  os.Getenv("FISH_API_KEY"),
			VoiceID: os.Getenv("FISH_VOICE_ID"),
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Fish Audio TTS", zap.Error(err))
		}
		textToSpeech = fish
	}

	var scenarios repositories.ScenarioGenerator
	switch {
	case useMocks:
		scenarios = llm.NewMockScenarioGenerator()
	case os.Getenv("GEMINI_API_KEY") != "":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		generator, err := llm.NewGeminiScenarioGenerator(ctx, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Gemini scenario generator", zap.Error(err))
		}
		scenarios = generator
	}

	return rooms, bot, speechToText, textToSpeech, scenarios, logger
}
