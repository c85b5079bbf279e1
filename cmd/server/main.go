package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vet-chatter/internal/auth"
	"vet-chatter/internal/config"
	"vet-chatter/internal/history"
	"vet-chatter/internal/httpapi"
	"vet-chatter/internal/llm"
	"vet-chatter/internal/relay"
	"vet-chatter/internal/scheduler"
	"vet-chatter/internal/storage"
	"vet-chatter/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmClient, err := llm.NewFactory(cfg).CreateClient(ctx, string(cfg.LLMProvider))
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	hist := history.NewManager()
	svc := relay.New(llmClient, hist, relay.Options{
		Provider: string(cfg.LLMProvider),
		Timeout:  cfg.LLMTimeout,
		Recorder: rec,
	})

	sched := scheduler.New()
	if cfg.SessionTTL > 0 {
		if err := sched.Every(cfg.SessionSweepInterval, "session-sweep", scheduler.SessionSweep(hist, cfg.SessionTTL, time.Now)); err != nil {
			log.Fatalf("failed to schedule session sweep: %v", err)
		}
	}
	if rec != nil {
		activeSessions := func() int { return len(hist.Sessions()) }
		report := scheduler.DailyReport(rec, activeSessions, time.Now, scheduler.LogReport)
		if err := sched.At(scheduler.DailyReportSpec, "daily-report", report); err != nil {
			log.Fatalf("failed to schedule daily report: %v", err)
		}
	}
	if sched.IsRunning() {
		sched.Start()
		defer sched.Stop()
	}

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.New(cfg.TelegramBotToken, svc, auth.NewAllowlist(cfg.TelegramAllowedChats))
		if err != nil {
			log.Fatalf("failed to create telegram bot: %v", err)
		}
		go bot.Start(ctx)
	}

	srv := httpapi.New(svc, httpapi.Options{
		Provider:       string(cfg.LLMProvider),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Recorder:       rec,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.HTTPAddr) }()

	log.Printf("🚀 vet-chatter running [provider=%s, model=%s]", cfg.LLMProvider, cfg.Model())

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("❌ HTTP server failed: %v", err)
		}
	case <-ctx.Done():
		log.Printf("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Printf("⚠️ HTTP shutdown: %v", err)
		}
	}
}
