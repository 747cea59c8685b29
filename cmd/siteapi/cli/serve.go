package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petrotech/siteapi/internal/config"
	"github.com/petrotech/siteapi/internal/server"
	"github.com/petrotech/siteapi/internal/service"
	"github.com/petrotech/siteapi/internal/store"
)

func newServeCmd() *cobra.Command {
	var dev bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server that exposes the posts, contacts, and admin APIs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(dev)
		},
	}

	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")

	return cmd
}

func runServe(dev bool) error {
	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// 1. Load configuration; missing MONGODB_URI or JWT_SECRET is fatal.
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Connect to MongoDB.
	s, err := store.Open(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close(ctx)
	}()
	logger.Info("connected to mongodb", "database", cfg.MongoDatabase)

	// 3. Seed the bootstrap admin if it does not exist yet.
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admin, created, err := store.EnsureAdmin(seedCtx, s, cfg.Bootstrap.Email, cfg.Bootstrap.Name, cfg.Bootstrap.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		logger.Info("bootstrap admin created", "email", admin.Email)
	} else {
		logger.Info("bootstrap admin already exists", "email", admin.Email)
	}

	// 4. Wire services.
	authSvc := service.NewAuthService(cfg.JWTSecret)
	mailer, err := service.NewMailer(service.MailerConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
	}, logger)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	// 5. Build and start the HTTP server.
	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srvCfg.CORSOrigins = cfg.CORSOrigins

	srv := server.New(srvCfg, s, authSvc, mailer, logger)

	fmt.Printf("→ siteapi listening on http://%s:%d\n", cfg.Host, cfg.Port)
	fmt.Printf("→ Health: http://%s:%d/api/health\n", cfg.Host, cfg.Port)

	return srv.ListenAndServe()
}
