package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"Gin_postgres_redis_asset_lending/config"
	"Gin_postgres_redis_asset_lending/db"
	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/localstore"
	"Gin_postgres_redis_asset_lending/models"
	"Gin_postgres_redis_asset_lending/session"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// Backend is everything the HTTP surface needs from storage. db.Repo and
// localstore.Store both implement it; one is chosen at startup.
type Backend interface {
	ledger.Store

	SaveBorrower(ctx context.Context, b *models.Borrower) error
	ListBorrowers(ctx context.Context, f models.BorrowerFilter) ([]models.Borrower, error)
	DeleteMaintenance(ctx context.Context, id string) error

	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, q string, page, size int) (models.UserPage, error)
	CountUsers(ctx context.Context) (int64, error)
	DeleteUser(ctx context.Context, id string) error
	TouchUserLogin(ctx context.Context, userID, ip, ua string) error
	TouchUserSeen(ctx context.Context, userID string) error

	Close() error
}

var (
	_ Backend = (*db.Repo)(nil)
	_ Backend = (*localstore.Store)(nil)
)

// App 聚合各依赖
type App struct {
	Router   *gin.Engine
	Backend  Backend
	Ledger   *ledger.Ledger
	Sessions session.Store
	RDB      *redis.Client // nil 表示未配置 Redis
	Logger   *zap.Logger
	Config   *config.Config
}

// New assembles an App from already opened collaborators.
func New(cfg *config.Config, backend Backend, sessions session.Store, rdb *redis.Client, logger *zap.Logger, opts ...ledger.Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]ledger.Option{ledger.WithLocation(cfg.Location())}, opts...)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger.Named("http")))
	useCORS(r, cfg.Server.WebOrigin)

	return &App{
		Router:   r,
		Backend:  backend,
		Ledger:   ledger.New(backend, logger.Named("ledger"), opts...),
		Sessions: sessions,
		RDB:      rdb,
		Logger:   logger,
		Config:   cfg,
	}
}

// MustNew opens storage and the session store described by cfg and bootstraps
// the first admin. Any failure is fatal.
func MustNew(cfg *config.Config, logger *zap.Logger) *App {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}

	// --- Redis (optional) ---
	var (
		rdb      *redis.Client
		sessions session.Store
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: 0})
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		defer pingCancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		sessions = session.NewRedisStore(rdb, cfg.Session.TTL)
		logger.Info("sessions stored in redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = session.NewMemoryStore(cfg.Session.TTL)
		logger.Warn("REDIS_ADDR not set, sessions kept in process")
	}

	if err := BootstrapFirstAdmin(ctx, cfg.Bootstrap, backend, logger.Named("bootstrap")); err != nil {
		logger.Fatal("bootstrap admin", zap.Error(err))
	}

	return New(cfg, backend, sessions, rdb, logger)
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		conn, err := db.ConnectDB(cfg.Storage.Postgres, logger.Named("db"))
		if err != nil {
			return nil, err
		}
		return db.NewRepo(conn), nil
	case config.BackendLocal:
		store, err := localstore.Open(cfg.Storage.LocalPath, logger.Named("localstore"))
		if err != nil {
			return nil, err
		}
		if cfg.Storage.SeedData {
			if err := SeedSampleData(ctx, store, logger.Named("seed")); err != nil {
				return nil, fmt.Errorf("seed sample data: %w", err)
			}
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// SecureCookies 前端为 https 时 Cookie 带 Secure
func (a *App) SecureCookies() bool { return strings.HasPrefix(a.Config.Server.WebOrigin, "https://") }

func (a *App) Close() {
	if err := a.Backend.Close(); err != nil {
		a.Logger.Error("close storage", zap.Error(err))
	}
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
