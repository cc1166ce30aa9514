package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userhub/internal/config"
	httpx "userhub/internal/http"
	profilesvc "userhub/internal/services/profile"
	usersvc "userhub/internal/services/user"
	"userhub/internal/store/memory"
	"userhub/internal/store/postgres"
	"userhub/internal/store/repositories"
	"userhub/migrations"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init store
	var userRepo repositories.UserRepository
	var profileRepo repositories.ProfileRepository
	switch cfg.DB.Driver {
	case "postgres":
		if err := migrations.Run(cfg.DB.DSN); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		userRepo = postgres.NewUserRepository(pool)
		profileRepo = postgres.NewProfileRepository(pool)
	default:
		store := memory.New()
		userRepo = store.Users()
		profileRepo = store.Profiles()
	}
	log.Info().Str("driver", cfg.DB.Driver).Msg("store ready")

	// Optional redis-backed rate limiting
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
	}

	// Services
	userService := usersvc.NewService(userRepo)
	profileService := profilesvc.NewService(profileRepo, userRepo)

	// Router
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:         cfg,
		UserService:    userService,
		ProfileService: profileService,
		Redis:          rdb,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("User & Profile API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
