package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"grade_desk/internal/cache"
	"grade_desk/internal/cluster"
	"grade_desk/internal/config"
	"grade_desk/internal/engine"
	"grade_desk/internal/grading"
	"grade_desk/internal/oracle"
	"grade_desk/internal/server"
)

type stdLogger struct{}

func (stdLogger) Log(level, stage, message, detail string) {
	log.Printf("%s %s: %s %s", level, stage, message, detail)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration failed: %v", err)
	}

	var store cache.Store
	switch cfg.CacheBackend {
	case "memory":
		store = cache.NewMemory()
	case "sqlite":
		s, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			log.Fatalf("opening grade cache at %s: %v", cfg.CachePath, err)
		}
		defer s.Close()
		store = s
	default:
		log.Fatalf("unknown cache backend %q", cfg.CacheBackend)
	}

	var o oracle.Oracle
	switch cfg.OracleProvider {
	case "gemini":
		o = oracle.NewGemini(cfg.GeminiAPIKey, cfg.OracleModel)
	case "anthropic":
		o = oracle.NewAnthropic(cfg.AnthropicAPIKey, cfg.OracleModel)
	default:
		log.Fatalf("unknown oracle provider %q", cfg.OracleProvider)
	}

	mode, err := cluster.ParseMode(cfg.GroupMode)
	if err != nil {
		log.Fatalf("configuration failed: %v", err)
	}

	eng := &engine.Engine{
		Coordinator: &grading.Coordinator{
			Oracle:  o,
			Cache:   store,
			Timeout: time.Duration(cfg.OracleTimeoutSecs) * time.Second,
			Logger:  stdLogger{},
		},
		Permutations: cfg.Permutations,
		GroupMode:    mode,
		Workers:      cfg.Workers,
		Logger:       stdLogger{},
	}

	srv := &server.Server{
		Engine:              eng,
		PlagiarismThreshold: cfg.PlagiarismThreshold,
		GroupThreshold:      cfg.GroupThreshold,
		MaxScore:            cfg.MaxScore,
		AssignmentTopic:     cfg.AssignmentTopic,
		Difficulty:          cfg.AssignmentDifficulty,
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("grade_desk listening on %s (oracle=%s cache=%s)", cfg.ListenAddr, cfg.OracleProvider, cfg.CacheBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
