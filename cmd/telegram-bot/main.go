package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge-chef/internal/app"
	"concierge-chef/internal/clipper"
	"concierge-chef/internal/config"
	"concierge-chef/internal/database"
	"concierge-chef/internal/export"
	"concierge-chef/internal/llm"
	"concierge-chef/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Cannot start bot: %v", err)
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Recipe import runs only when an LLM provider key is present.
	var recipeClipper *clipper.Clipper
	switch {
	case cfg.GeminiAPIKey != "":
		gen, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if c, ok := gen.(llm.Closer); ok {
			defer c.Close()
		}
		recipeClipper = clipper.NewClipper(gen)
	case cfg.GroqAPIKey != "":
		recipeClipper = clipper.NewClipper(llm.NewGroqClient(cfg))
	default:
		log.Println("No LLM provider key set; /clip is disabled")
	}

	application := app.NewApp(cfg, db, recipeClipper)

	bot, err := telegram.NewBot(cfg, application)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	if cfg.ExportJWTSecret != "" {
		export.NewServer(application.PlanRepo(), cfg.ExportJWTSecret).RegisterHandlers(mux)
		log.Println("Plan export API enabled")
	} else {
		log.Println("EXPORT_JWT_SECRET not set; export API disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
