package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "savings-group-backend/internal/adapter/http"
	mw "savings-group-backend/internal/adapter/middleware"
	"savings-group-backend/internal/adapter/repository/gormstore"
	"savings-group-backend/internal/adapter/scheduler"
	"savings-group-backend/internal/config"
	"savings-group-backend/internal/domain/identity"
	"savings-group-backend/internal/infrastructure/cache"
	"savings-group-backend/internal/infrastructure/db"
	groupuc "savings-group-backend/internal/usecase/group"
	loanuc "savings-group-backend/internal/usecase/loan"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if cfg.DBAutoMigrate {
		if err := gormstore.Migrate(gdb); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	store := gormstore.NewGormUoW(gdb)
	ids := identity.ContextProvider{}
	groups := groupuc.NewUsecase(store.Repos(), store, cfg.MaxTxAttempts)
	loans := loanuc.NewUsecase(store.Repos(), store, ids,
		loanuc.WithMaxAttempts(cfg.MaxTxAttempts),
		loanuc.WithQuorumTimeout(cfg.QuorumTimeout()),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(echo.WrapMiddleware(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", mw.HeaderRequestID, mw.HeaderRequestAt, mw.HeaderMemberID},
		MaxAge:         300,
	})))
	e.Use(mw.Identity())
	e.Use(mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL()))

	health := httpadp.NewHandler(
		httpadp.Check{Name: "db", Ping: sqlDB.PingContext},
		httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)
	httpadp.RegisterRoutes(e, health,
		httpadp.NewGroupHandler(groups, ids),
		httpadp.NewLoanHandler(loans, groups, ids),
	)

	sweeper := scheduler.NewSweeper(loans, rdb, cfg.SweepInterval())
	sweeper.Start()

	go func() {
		addr := ":" + cfg.AppPort
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sweeper.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
