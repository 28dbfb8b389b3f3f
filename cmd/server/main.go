package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jathin-vignesh/goal-tracker/internal/config"
	"github.com/jathin-vignesh/goal-tracker/internal/handler"
	"github.com/jathin-vignesh/goal-tracker/internal/repository"
	"github.com/jathin-vignesh/goal-tracker/internal/service"
	"github.com/jathin-vignesh/goal-tracker/internal/token"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected")

	if err := repository.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	tokenSvc := token.NewService(token.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	authSvc := service.NewAuthService(userRepo, tokenSvc, cfg.AllowedEmailDomain)
	ssoSvc := service.NewSSOService(userRepo, tokenSvc, service.SSOConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	goalSvc := service.NewGoalService(goalRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	ssoHandler := handler.NewSSOHandler(ssoSvc)
	goalHandler := handler.NewGoalHandler(goalSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.GET("/auth/google/login", ssoHandler.GoogleLogin)
	e.GET("/auth/google/callback", ssoHandler.GoogleCallback)

	protected := e.Group("", handler.BearerAuth(authSvc))
	protected.POST("/auth/set-password", authHandler.SetPassword)
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/goals", goalHandler.CreateGoal)
	protected.GET("/goals", goalHandler.ListGoals)
	protected.POST("/goals/:goal_id/subgoals", goalHandler.CreateSubGoal)
	protected.POST("/subgoals/:subgoal_id/complete", goalHandler.CompleteSubGoal)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
