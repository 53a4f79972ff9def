package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/kargolojik/internal/middleware"
)

// Routes registers the API on app
func (h *Handler) Routes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/", h.Root)
	api.Get("/health", h.Health)
	api.Get("/branches", h.ListBranches)
	api.Get("/branches/:id", h.GetBranch)
	api.Get("/companies", h.ListCompanies)
	api.Get("/cities", h.ListCities)
	api.Get("/stats", h.Stats)

	api.Post("/auth/login", h.Login)

	admin := api.Group("/admin", middleware.AuthRequired(h.cfg.JWTSecret), middleware.AdminRequired())
	admin.Post("/branches", h.CreateBranch)
	admin.Put("/branches/:id", h.UpdateBranch)
	admin.Delete("/branches/:id", h.DeleteBranch)
	admin.Post("/seed/sample-branches", h.SeedSampleBranches)
	admin.Post("/import", h.ImportBranches)
}
