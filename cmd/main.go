package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallboard/config"
	_ "wallboard/docs"
	"wallboard/internal/handler"
	"wallboard/internal/realtime"
	"wallboard/internal/repository"
	"wallboard/internal/security"
	"wallboard/internal/service"
	"wallboard/internal/util"

	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Wallboard
// @version 1.0
// @description Climbing board problems: boards, holds, sharing and access codes

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var configPath string

var rootCmd = &cobra.Command{
	Use:           "wallboard",
	Short:         "Climbing board problem server",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		migrate, _ := cmd.Flags().GetBool("migrate")
		return serve(cmd.Context(), cfg, migrate)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := config.MigrateUp(db.DB.DB); err != nil {
			return err
		}
		zap.L().Info("migrations applied")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		current, latest, dirty, err := config.MigrationStatus(db.DB.DB)
		if err != nil {
			return err
		}
		fmt.Printf("current: %d\nlatest:  %d\ndirty:   %t\n", current, latest, dirty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the yaml config")
	serveCmd.Flags().Bool("migrate", true, "apply pending migrations before serving")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func loadConfig() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := util.InitLogger(cfg.Log.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	return cfg, logger, nil
}

func serve(parent context.Context, cfg *config.AppConfig, migrate bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			zap.L().Warn("closing database", zap.Error(err))
		}
	}()

	if migrate {
		if err := config.MigrateUp(db.DB.DB); err != nil {
			return err
		}
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zap.L().Warn("closing redis", zap.Error(err))
		}
	}()

	hub := realtime.NewHub()
	bus := realtime.NewRedisBus(redisClient, cfg.RedisConfig.Channel, hub)
	if err := bus.StartForwarder(ctx); err != nil {
		return err
	}

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		return fmt.Errorf("creating s3 service: %w", err)
	}

	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository()
	jwtRepo := repository.NewJWTRepository(db)
	boardRepo := repository.NewBoardRepository()
	sharedRepo := repository.NewSharedBoardRepository()
	problemRepo := repository.NewProblemRepository()
	grantRepo := repository.NewGrantRepository()
	codeRepo := repository.NewAccessCodeRepository()
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.BoardCache)*time.Second)

	ids := util.UUIDGenerator{}
	jwtService := security.NewJWTService(&cfg.JWT)

	authService := service.NewAuthenticationService(txManager, jwtRepo, jwtService, userRepo, ids)
	boardService := service.NewBoardService(txManager, boardRepo, sharedRepo, cacheRepo, s3Service, bus, ids, cfg.Canvas)
	accessService := service.NewAccessService(txManager, boardService, grantRepo, sharedRepo, codeRepo, userRepo, bus, util.SystemClock{}, cfg.AccessCodes)
	problemService := service.NewProblemService(txManager, problemRepo, boardService, accessService, bus, ids)

	srv, router := config.SetupServer(cfg.Server)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	handler.RegisterRoutes(router, handler.Handlers{
		Auth:     handler.NewAuthenticationHandler(authService, jwtService),
		Boards:   handler.NewBoardHandler(boardService, accessService, bus, cfg.Server.MaxUploadBytes, cfg.Server.RequestTimeout),
		Problems: handler.NewProblemHandler(problemService, boardService, cfg.Canvas.MaxPixels),
		Access:   handler.NewAccessHandler(accessService),
	}, jwtRepo, jwtService)

	return runServer(ctx, srv)
}

func runServer(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChannel)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-signalChannel:
		zap.L().Info("shutdown signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	zap.L().Info("server stopped")
	return nil
}
