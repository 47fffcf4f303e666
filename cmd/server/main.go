package main

import (
	"flag"
	"log"
	"strings"

	"github.com/tanmaydutta/NMRPeakMatch/internal/metrics"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/config"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/logger"
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch"
)

var (
	port           int
	dbPath         string
	seedFile       string
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	flag.StringVar(&seedFile, "seed", "", "JSON compound file to import on startup (overrides config)")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if seedFile != "" {
		cfg.Database.SeedFile = seedFile
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	metrics.Init()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := peakmatch.NewService(
		peakmatch.WithDBPath(cfg.Database.Path),
		peakmatch.WithTolerances(cfg.Matching.ToleranceH, cfg.Matching.ToleranceC),
		peakmatch.WithScoreThreshold(cfg.Matching.ScoreThreshold),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	server := NewServer(service, cfg, origins)

	if cfg.Database.SeedFile != "" {
		server.seed(cfg.Database.SeedFile)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
