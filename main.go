package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostelcare/config"
	"github.com/yeremiapane/hostelcare/database"
	"github.com/yeremiapane/hostelcare/hub"
	"github.com/yeremiapane/hostelcare/router"
	"github.com/yeremiapane/hostelcare/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDB(cfg.DB, cfg.GinMode)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	if _, err := database.SeedAdmin(db, cfg.Seed); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
	}

	r := router.SetupRouter(router.Dependencies{
		DB:                 db,
		Tokens:             utils.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Hub:                hub.New(),
		CORSOrigin:         cfg.CORSOrigin,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Forced shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Println("Server stopped")
}
