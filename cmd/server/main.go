package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/auth-service/internal/access"
	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/router"
	"github.com/iliyamo/auth-service/internal/token"
)

func main() {
	_ = godotenv.Load() // pick up .env when present; real env always wins
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		// Refresh tokens and the logout deny-list live in Redis; without it
		// the token lifecycle cannot be enforced.
		log.Fatal("redis unavailable: the token engine requires its cache")
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	history := repository.NewHistoryRepo(db)

	tokens := token.NewEngine(
		token.NewStore(rdb),
		cfg.SecretKeyAccess,
		cfg.SecretKeyRefresh,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLMin)*time.Minute,
	)
	acl := access.NewEngine(users, roles, history, cfg.BcryptCost)

	seedAdmin(acl, cfg)

	// Background consumer mirrors login events into logs/auth.log.
	go func() {
		if err := queue.StartLoginConsumer(); err != nil {
			log.Printf("login consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(acl, tokens), limiter)
	router.RegisterRoles(e, handler.NewRoleHandler(acl), tokens)
	router.RegisterUsers(e, handler.NewUserHandler(acl), tokens)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured and the account does not exist yet.
func seedAdmin(acl *access.Engine, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := acl.Signup(ctx, cfg.AdminEmail, cfg.AdminPassword, "Admin", "")
	switch {
	case err == nil:
		log.Printf("seeded admin account %s", cfg.AdminEmail)
	case errors.Is(err, repository.ErrUserExists):
		// already seeded
	default:
		log.Printf("seed admin failed: %v", err)
	}
}
