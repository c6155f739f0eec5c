package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/axsec/backend/api/handler"
	"github.com/axsec/backend/internal/config"
	"github.com/axsec/backend/internal/infrastructure/boltstore"
	"github.com/axsec/backend/internal/infrastructure/history"
	"github.com/axsec/backend/internal/infrastructure/monitor"
	pgInfra "github.com/axsec/backend/internal/infrastructure/postgres"
	redisInfra "github.com/axsec/backend/internal/infrastructure/redis"
	"github.com/axsec/backend/internal/middleware"
	"github.com/axsec/backend/internal/router"
	"github.com/axsec/backend/internal/seed"
	"github.com/axsec/backend/internal/services"
	"github.com/axsec/backend/internal/services/lifecycle"
	"github.com/axsec/backend/internal/sources"
	"github.com/axsec/backend/pkg/httpcontext"
	"github.com/axsec/backend/pkg/logger"
	"github.com/axsec/backend/repository"
	boltRepo "github.com/axsec/backend/repository/bolt"
	pgRepo "github.com/axsec/backend/repository/postgres"
	redisRepo "github.com/axsec/backend/repository/redis"
	authUC "github.com/axsec/backend/usecase/auth"
	directoryUC "github.com/axsec/backend/usecase/directory"
	searchUC "github.com/axsec/backend/usecase/search"
	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Session.TokenSecret == "" {
		zapLogger.Warn("SESSION_TOKEN_SECRET not set, using development default")
		cfg.Session.TokenSecret = "dev-secret-change-me"
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	db, err := boltstore.Open(cfg.Store.BoltPath)
	if err != nil {
		zapLogger.Fatal("failed to open bolt store", zap.Error(err))
	}
	manager.Register("boltstore", func(ctx context.Context) error {
		return db.Close()
	})

	var (
		pool        *pgxpool.Pool
		redisClient *redislib.Client
	)

	var accountRepo repository.AccountRepository
	switch cfg.Store.AccountDriver {
	case config.DriverPostgres:
		if cfg.Migrations.Enabled {
			if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
				zapLogger.Fatal("migrations failed", zap.Error(err))
			}
		}
		pool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		accountRepo = pgRepo.NewAccountRepository(pool)
	default:
		accountRepo = boltRepo.NewAccountRepository(db)
	}

	var sessionRepo repository.SessionRepository
	switch cfg.Store.SessionDriver {
	case config.DriverRedis:
		redisClient, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		sessionRepo = redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	default:
		sessionRepo = boltRepo.NewSessionRepository(db, cfg.Session.TTL)
	}

	historyStore := history.New(db)

	mon := monitor.New(db, historyStore, pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	if cfg.Seed.Enabled {
		if err := seed.Demo(appCtx, accountRepo, zapLogger); err != nil {
			zapLogger.Fatal("demo seed failed", zap.Error(err))
		}
	}

	var verifier authUC.CredentialVerifier
	switch cfg.Auth.Mode {
	case "bcrypt":
		verifier = authUC.BcryptVerifier{}
	default:
		verifier = authUC.MinLengthVerifier{Min: cfg.Auth.MinSecretLength}
	}

	authUseCase := authUC.New(accountRepo, sessionRepo, verifier, cfg.Session.TTL, zapLogger)
	directoryUseCase := directoryUC.New(accountRepo, zapLogger)

	generator := sources.New(time.Now().UnixNano(), 1500*time.Millisecond, time.Second)
	historyBridge := services.NewHistoryBridge(historyStore)
	searchUseCase := searchUC.New(generator, directoryUseCase, historyBridge, zapLogger)

	maintenance := services.NewMaintenance(
		directoryUseCase,
		sessionRepo,
		historyStore,
		zapLogger,
		services.MaintenanceConfig{
			CreditResetSpec:  cfg.Maintenance.CreditResetSpec,
			SweepInterval:    cfg.Maintenance.SweepInterval,
			HistoryRetention: cfg.Maintenance.HistoryRetention,
		},
	)
	maintenance.Start()
	manager.Register("maintenance", func(ctx context.Context) error {
		maintenance.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth: apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, apiHandler.TokenConfig{
			Secret: cfg.Session.TokenSecret,
			Issuer: cfg.Session.TokenIssuer,
		}),
		Account: apiHandler.NewAccountHandler(authUseCase, ctxAdapter, zapLogger),
		Users:   apiHandler.NewUsersHandler(directoryUseCase, authUseCase, ctxAdapter, zapLogger),
		Modules: apiHandler.NewModulesHandler(searchUseCase, authUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(cfg.Session.TokenSecret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
