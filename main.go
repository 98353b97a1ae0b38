package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/jylim/leadership-coach/internal/analysis"
	"github.com/jylim/leadership-coach/internal/api"
	"github.com/jylim/leadership-coach/internal/coach"
	"github.com/jylim/leadership-coach/internal/config"
	"github.com/jylim/leadership-coach/internal/gui"
	"github.com/jylim/leadership-coach/internal/ingestion"
	"github.com/jylim/leadership-coach/internal/llm"
	"github.com/jylim/leadership-coach/internal/logger"
	"go.uber.org/zap"
)

func main() {
	runGUI := flag.Bool("gui", false, "run the desktop app instead of the HTTP server")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	cfg.ApplyToEnv()

	log, err := logger.New(cfg.JSONLog, cfg.Debug)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	analyzer := analysis.NewAnalyzer(log)

	// Coaching is optional: without a configured project the rest of the app
	// still works.
	var streamer coach.Streamer
	if cfg.CoachingConfigured() {
		client, err := llm.NewVertexAIClient(context.Background(), cfg.ModelName)
		if err != nil {
			log.Warn("coaching disabled", zap.Error(err))
		} else {
			defer client.Close()
			streamer = client
		}
	} else {
		log.Info("coaching disabled: google_cloud_project is not set")
	}

	if *runGUI {
		gui.NewApp(analyzer, streamer, cfg, log).Run()
		return
	}

	files := ingestion.NewFileHandler(cfg.UploadsDir)
	server := api.NewServer(analyzer, files, streamer, cfg.GmailCredentialsPath, log)

	addr := cfg.ListenAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	log.Info("starting leadership coach server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
