package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lkhorasandzhian/aton-web-api/config"
	"github.com/lkhorasandzhian/aton-web-api/internal/application/ports"
	"github.com/lkhorasandzhian/aton-web-api/internal/application/services"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
	"github.com/lkhorasandzhian/aton-web-api/internal/domain/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/db/inmemory"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/db/postgres"
	pgUser "github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/db/postgres/user"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/jwt"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/metrics"
	"github.com/lkhorasandzhian/aton-web-api/internal/infrastructure/mq"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest"
	"github.com/lkhorasandzhian/aton-web-api/internal/interface/api/rest/middleware"
	"github.com/lkhorasandzhian/aton-web-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	userRepo   user.Repository
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
	publisher  ports.EventPublisher
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a := &App{
		logger:    logger,
		cfg:       cfg,
		httpSrv:   httpSrv,
		router:    r,
		mCounter:  mCounter,
		publisher: mq.Discard{},
	}

	// storage
	switch cfg.App.Storage {
	case config.StoragePostgres:
		dbDsn, err := cfg.DBDSN()
		if err != nil {
			logger.Fatal("DB config error", zap.Error(err))
		}
		a.db, err = postgres.New(ctx, logger, dbDsn)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err = postgres.Migrate(ctx, logger, a.db); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		a.userRepo = pgUser.NewRepository(a.db)
	case config.StorageMemory:
		a.userRepo = inmemory.NewRepository()
	default:
		logger.Fatal("unknown storage", zap.String("storage", cfg.App.Storage))
	}

	if err = services.Bootstrap(ctx, a.userRepo, cfg.Seed, logger, time.Now()); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}

	// rabbitMQ
	if !cfg.MQEnabled() {
		logger.Info("rabbitmq disabled, lifecycle events are discarded")
		return a, nil
	}
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	// rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}
	a.mq = rbMQ
	a.mqConsumer = rmqConsumer
	a.publisher = rbMQ

	return a, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// services
	secret := a.cfg.App.JWTSecret
	if secret == "" {
		// tokens will not survive a restart
		a.logger.Warn("SERVICE_JWT_SECRET is empty, using a random one")
		secret = uuid.NewString()
	}
	jwtService := jwt.New(secret, a.cfg.App.JWTTTL)
	authService := services.NewAuthService(a.userRepo, jwtService, a.mCounter)
	userService := services.NewUserService(
		a.userRepo,
		access.NewPolicy(a.cfg.App.AllowAnonymousRegistration),
		a.publisher,
		a.mCounter,
	)

	// controllers
	authMW := middleware.Authenticate(authService, a.logger)
	rest.NewAuthController(a.router, a.logger, authService, authMW, jwtService.TTL())
	rest.NewUserController(a.router, userService, a.logger, authMW, a.cfg.IsDebug())

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
