package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/himanishpuri/DupeDNA/internal/config"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna"
	"github.com/himanishpuri/DupeDNA/pkg/logger"
)

var (
	configPath     string
	port           int
	dbFolder       string
	allowedOrigins string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Configuration file path")
	flag.IntVar(&port, "port", 0, "HTTP server port (default from config, 8080)")
	flag.StringVar(&dbFolder, "db-folder-path", "", "Folder containing digikam4.db and similarity.db")
	flag.StringVar(&allowedOrigins, "origins", "", "Comma-separated list of allowed CORS origins (use * for all)")
}

func main() {
	flag.Parse()
	log := logger.GetLogger()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to read .env: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if lvl, err := logger.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}

	if dbFolder != "" {
		cfg.Catalog.DBFolder = dbFolder
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if allowedOrigins != "" {
		cfg.Server.AllowedOrigins = parseOrigins(allowedOrigins)
	}
	if err := cfg.RequireDBFolder(); err != nil {
		log.Fatalf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	service, err := dupedna.NewService(cfg.ServiceOptions()...)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	server := NewServer(service, &ServerConfig{
		Port:           cfg.Server.Port,
		DBFolder:       cfg.Catalog.DBFolder,
		SourceRoot:     cfg.Output.SourceRoot,
		Defaults:       cfg.FindOptions(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		log.Errorf("Server failed: %v", err)
		stop()
		service.Close()
		os.Exit(1)
	}
}

func parseOrigins(value string) []string {
	if strings.TrimSpace(value) == "*" {
		return []string{"*"}
	}
	origins := strings.Split(value, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
