package routes

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/internal/api/handlers"
	"AgroTech-Vision/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// PreviewPathPrefix is where preview ids are served; the preview store builds URLs from it.
const PreviewPathPrefix = "/api/v1/analysis/preview/"

type Config struct {
	App             *fiber.App
	AnalysisHandler handlers.AnalysisHandler
	HistoryHandler  handlers.HistoryHandler
	Middleware      middleware.Middleware
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Analysis()
	c.History()
	c.GuestRoute()
}

func (c *Config) Analysis() {
	analysis := c.App.Group("/api/v1/analysis")
	{
		analysis.Get("", c.AnalysisHandler.GetAnalysis)
		analysis.Delete("", c.AnalysisHandler.ClearAnalysis)
		analysis.Post("/file", c.AnalysisHandler.SelectFile)
		analysis.Post("/submit", c.AnalysisHandler.Submit)
		analysis.Post("/keep", c.AnalysisHandler.KeepResult)
		analysis.Get("/preview/:id", c.AnalysisHandler.GetPreview)
	}
}

func (c *Config) History() {
	history := c.App.Group("/api/v1/history")
	{
		history.Get("", c.HistoryHandler.GetHistory)
		history.Delete("", c.HistoryHandler.ClearHistory)
		history.Get("/stats", c.HistoryHandler.GetStats)
		history.Get("/export", c.HistoryHandler.ExportHistory)
		history.Post("/export/mail", c.HistoryHandler.MailExport)
		history.Delete("/:id", c.HistoryHandler.RemoveEntry)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": domain.MessageSuccessPing})
	})
}
