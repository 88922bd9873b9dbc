package config

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/internal/api/handlers"
	"AgroTech-Vision/internal/api/routes"
	"AgroTech-Vision/internal/middleware"
	"AgroTech-Vision/internal/utils"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func NewApp(stack *Stack) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		// room for the multipart envelope around a maximum size image
		BodyLimit: domain.MaxFileSize + 1<<20,
	})
	middlewares := middleware.NewMiddleware(utils.GetConfig("CORS_ALLOW_ORIGINS"))
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "America/Asuncion",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// Handler
	analysisHandler := handlers.NewAnalysisHandler(stack.Controller, validator)
	historyHandler := handlers.NewHistoryHandler(stack.HistoryService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		AnalysisHandler: analysisHandler,
		HistoryHandler:  historyHandler,
		Middleware:      middlewares,
	}
	routesConfig.Setup()
	return app, nil
}
