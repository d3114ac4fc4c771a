package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"reframer/internal/config"
	"reframer/internal/handlers"
	"reframer/internal/logging"
	"reframer/internal/prompts"
	"reframer/internal/rewrite"
	"reframer/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Reframer Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Uploads: %s, Model: %s)", cfg.Port, cfg.UploadDir, cfg.GeminiModel)

	// Load the prompt template and preset catalog
	catalog, err := prompts.LoadCatalog(cfg.PromptsDir)
	if err != nil {
		log.Fatalf("❌ Failed to load prompt catalog from %s: %v", cfg.PromptsDir, err)
	}
	log.Printf("✅ Prompt catalog loaded (%d presets)", len(catalog.Presets()))
	go catalog.Watch()

	// Initialize the Gemini generation backend
	if cfg.GeminiAPIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY environment variable is required")
	}
	generator, err := rewrite.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini client: %v", err)
	}
	log.Println("✅ Gemini client initialized")

	// Session identity + per-session draft state
	sessions := session.NewManager(cfg.SessionTTL)
	drafts := session.NewDraftStore(cfg.SessionTTL)

	processor := rewrite.NewProcessor(generator, catalog, cfg.GeminiModel)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Reframer v1.0",
		ReadTimeout:  300 * time.Second, // generation calls are synchronous and can run for minutes
		WriteTimeout: 300 * time.Second,
		BodyLimit:    16 * 1024 * 1024, // 16MB cap on uploads
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("reframer")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(sessions, drafts, catalog, cfg.UploadDir)
	processHandler := handlers.NewProcessHandler(sessions, processor, cfg.UploadDir)
	healthHandler := handlers.NewHealthHandler()

	// Routes
	app.Get("/health", healthHandler.Handle)

	task := app.Group("/task")
	task.Get("/draft", taskHandler.GetDraft)
	task.Post("/title", taskHandler.SetTitle)
	task.Post("/articles", taskHandler.AddArticle)
	task.Delete("/articles/:id", taskHandler.RemoveArticle)
	task.Put("/instruction", taskHandler.SetInstruction)
	task.Get("/presets", taskHandler.ListPresets)
	task.Post("/finalize", taskHandler.Finalize)
	task.Get("/:id", processHandler.GetTask)
	task.Post("/:id/process", processHandler.ProcessTask)

	app.Get("/tasks", processHandler.ListTasks)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
