package runtime

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SethRoll3/AcercateSys-sub001/internal/app/router"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/cleanup"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/config"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/mongo"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/db/redis"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/log_messages"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
)

var (
	connectMongoDB = mongo.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
)

// App encapsulates application resources and lifecycle.
type App struct {
	Cfg         *config.AppConfig
	MongoClient *mongo.MongoClient
	RedisClient *redis.RedisClient
	HTTPServer  *http.Server
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadFromConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	mClient, err := connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err)
		return nil, err
	}

	rClient, err := connectRedisDB(ctx, cfg.Redis)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to Redis", err)
		return nil, err
	}

	return &App{
		Cfg:         cfg,
		MongoClient: mClient,
		RedisClient: rClient,
	}, nil
}

// Run starts the HTTP server, then blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	engine := router.SetupRouter(ctx, a.Cfg, a.MongoClient, a.RedisClient)
	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Shutdown(ctx)
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return nil
}

// Shutdown gracefully closes all resources with bounded timeouts.
func (a *App) Shutdown(ctx context.Context) {
	cleanup.CleanupResources(ctx, a.MongoClient, a.RedisClient, a.HTTPServer)
}
