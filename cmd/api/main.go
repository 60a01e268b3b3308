package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/bytes"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/meeting-intel/docs"
	"github.com/johnquangdev/meeting-intel/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intel/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/external/oauth"
	httpmw "github.com/johnquangdev/meeting-intel/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/mail"
	pdfreport "github.com/johnquangdev/meeting-intel/internal/infrastructure/report"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/storage"
	aiuse "github.com/johnquangdev/meeting-intel/internal/usecase/ai"
	"github.com/johnquangdev/meeting-intel/internal/usecase/auth"
	"github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intel/internal/usecase/report"
	pkgai "github.com/johnquangdev/meeting-intel/pkg/ai"
	"github.com/johnquangdev/meeting-intel/pkg/config"
	"github.com/johnquangdev/meeting-intel/pkg/jwt"
	pkgmw "github.com/johnquangdev/meeting-intel/pkg/middleware"
	"github.com/johnquangdev/meeting-intel/pkg/secure"
	pkgvalidator "github.com/johnquangdev/meeting-intel/pkg/validator"
)

// @title           Meeting Intelligence API
// @version         1.0
// @description     Meeting transcription, summaries, participant research and PDF reports.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// stateStore backs OAuth state and meeting locks
type stateStore interface {
	oauth.Store
	meeting.Locker
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Identity database
	log.Println("📦 Connecting to Postgres...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying migrations...")
		n, err := database.RunMigrations(db, database.MigrationsDir)
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Printf("✅ Applied %d migrations", n)
	} else {
		log.Println("🔄 Skipping migrations; run scripts/migrate to manage the schema")
	}

	// Meeting store
	log.Println("📦 Connecting to MongoDB...")
	mongoClient, mongoDB, err := database.NewMongoDB(ctx, &cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer database.CloseMongo(context.Background(), mongoClient)

	// Shared state: Redis when available, in-process otherwise
	store := newStateStore(cfg, logger)

	// Audio archive
	var archive meeting.AudioArchive
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to MinIO...")
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		archive = minioClient
	}

	// Repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewLoginAuditRepository(db)
	meetingRepo, err := repository.NewMeetingRepository(ctx, mongoDB, logger)
	if err != nil {
		log.Fatalf("Failed to initialize meeting repository: %v", err)
	}

	// AI
	log.Println("🤖 Initializing AI components...")
	transcriber := pkgai.NewAssemblyAIClient(&cfg.Assembly, &cfg.AI, logger)
	completer := pkgai.NewGroqClient(&cfg.Groq, &cfg.AI, logger)
	aiService := aiuse.NewService(transcriber, completer, logger)

	// Auth
	log.Println("🔐 Initializing auth...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	cipher, err := secure.NewCipher(cfg.SessionKey)
	if err != nil {
		log.Fatalf("Failed to initialize audit cipher: %v", err)
	}
	mailer := mail.NewMailer(&cfg.Mail, cfg.Server.FrontendURL, logger)
	if mailer.Simulated() {
		log.Println("📧 Email running in SIMULATION mode (verification links are logged)")
	}

	var google auth.GoogleProvider
	var states auth.StateManager
	if cfg.OAuth.Google.Enabled() {
		google = oauth.NewGoogleProvider(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURL,
		)
		states = oauth.NewStateManager(store)
	} else {
		log.Println("⚠️  Google login disabled (GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET not set)")
	}

	authService := auth.NewService(userRepo, auditRepo, jwtManager, cipher, mailer, google, states, logger)

	// Meetings and reports
	meetingService := meeting.NewService(meetingRepo, aiService, archive, store,
		meeting.Options{JobTimeout: cfg.AI.JobTimeout}, logger)
	renderer := pdfreport.NewPDFRenderer()
	if cfg.Report.FontRegular != "" {
		renderer.WithUTF8Font(cfg.Report.FontRegular, cfg.Report.FontBold)
	} else {
		log.Println("⚠️  REPORT_FONT_REGULAR not set, PDF export limited to Latin text")
	}
	reportService := report.NewService(meetingRepo, renderer, logger)

	maxUpload, err := bytes.Parse(cfg.Server.MaxUploadSize)
	if err != nil {
		log.Fatalf("Invalid MAX_UPLOAD_SIZE %q: %v", cfg.Server.MaxUploadSize, err)
	}

	// HTTP
	e := newEcho(cfg, logger)

	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewAuth(authService, cfg.Server.FrontendURL, logger),
		handler.NewMeeting(meetingService, maxUpload, logger),
		handler.NewReport(reportService, logger),
		httpmw.NewAuthMiddleware(jwtManager),
	)
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newStateStore(cfg *config.Config, logger *zap.Logger) stateStore {
	if !cfg.Redis.Enabled {
		log.Println("⚠️  Redis disabled, using in-memory state")
		return cache.NewMemoryStore()
	}

	log.Println("📦 Connecting to Redis...")
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		if cfg.IsProduction() {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		logger.Warn("redis unavailable, falling back to in-memory state", zap.Error(err))
		return cache.NewMemoryStore()
	}
	return cache.NewRedisStore(client)
}

func newEcho(cfg *config.Config, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = false

	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(pkgmw.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, pkgmw.HeaderRequestID},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(cfg.Server.MaxUploadSize))

	return e
}
