package main

import (
	"context"
	"fmt"

	"github.com/jonathan/cv-shortlister/internal/server"
	"github.com/jonathan/cv-shortlister/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for jobs, applications, criteria and shortlisting.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if servePort > 0 {
		cfg.Port = servePort
	}

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	svc, err := newService(cfg, database, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	srv := server.New(server.Config{
		Addr:        cfg.Addr(),
		DefaultTopN: cfg.DefaultTopN,
		RateLimit:   ratelimit.FromSettings(cfg.RateLimit),
	}, svc, database, logger)

	logger.Info("serving",
		zap.String("addr", cfg.Addr()),
		zap.String("upload_dir", cfg.UploadDir),
		zap.Int("workers", cfg.Workers))
	return srv.Start()
}
