package main

import (
	"AgroTech-Vision/cmd/config"
	migration "AgroTech-Vision/cmd/database/migrate"
	"AgroTech-Vision/internal/utils"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "Run database migrations and exit")
	flag.Parse()

	utils.LoadConfig()
	ctx := context.Background()

	var db *gorm.DB
	if config.UsesDatabase() || *migrateOnly {
		var err error
		db, err = config.ConnectDB()
		if err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		if err := migration.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		if *migrateOnly {
			os.Exit(0)
		}
	}

	stack, err := config.NewStack(ctx, db)
	if err != nil {
		log.Fatalf("Failed to initialize analysis stack: %v", err)
	}
	defer stack.Controller.Close()

	app, err := config.NewApp(stack)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	addr := fmt.Sprintf(":%s", utils.GetConfigOrDefault("PORT", "8080"))
	go func() {
		log.Infof("Starting server on %s, prediction backend %s", addr, utils.APIBaseURL())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Could not listen on %s: %v", addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exiting gracefully")
}
