// @title        Accounting API
// @version      1.0
// @description  User accounts, credentials and roles.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/telran/accounting/internal/api"
	"github.com/telran/accounting/internal/core/ports"
	"github.com/telran/accounting/internal/core/service"
	"github.com/telran/accounting/internal/infrastructure/crypto"
	"github.com/telran/accounting/internal/infrastructure/db/memory"
	"github.com/telran/accounting/internal/infrastructure/db/mongo"
	"github.com/telran/accounting/internal/infrastructure/db/redis"
	"github.com/telran/accounting/internal/pkg/config"
	"github.com/telran/accounting/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// The shared logger may not exist yet when config loading fails.
		zerolog.New(os.Stderr).With().Timestamp().Logger().
			Fatal().Err(err).Msg("accounting service stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounting",
	})

	repo, mongoClient, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if mongoClient != nil {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		repo = redis.NewAccountCache(repo, redisClient, cfg.Redis.CacheTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("account cache enabled")
	}

	codec := crypto.NewBcryptCodec(cfg.Auth.BcryptCost)
	accounts := service.NewAccountService(repo, codec, log)
	if _, err := accounts.EnsureAdministrator(ctx, cfg.Auth.AdminLogin, cfg.Auth.AdminPassword); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Accounts:  accounts,
		Auth:      service.NewAuthService(repo, codec, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		JWTSecret: cfg.Auth.JWTSecret,
		Mongo:     mongoClient,
		Redis:     redisClient,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.AccountRepository, *gomongo.Client, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Msg("using in-memory account store; data is lost on restart")
		return memory.NewAccountRepository(), nil, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "accounting",
		Timeout:     cfg.Mongo.Timeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	return mongo.NewAccountRepository(db), client, nil
}
