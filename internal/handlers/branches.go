package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/database"
	"github.com/foxxcyber/kargolojik/internal/models"
)

const rootMessage = "Kargolojik API - Kargo Sorunları Çözüm Platformu"

// Root describes the API
// GET /api/
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": rootMessage})
}

// Health reports service health, including the backing store
// GET /api/health
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.svc.Ping(c.UserContext()); err != nil {
		h.logger.Warn("store ping failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"service": "kargolojik-api",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "kargolojik-api",
	})
}

// ListBranches returns a filtered page of branches
// GET /api/branches
func (h *Handler) ListBranches(c *fiber.Ctx) error {
	params := &models.BranchListParams{
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", models.DefaultBranchLimit),
		Search:  c.Query("search"),
		City:    c.Query("city"),
		Company: c.Query("company"),
	}
	if params.Page < 1 || params.Limit < 1 || params.Limit > models.MaxBranchLimit {
		return fiber.NewError(fiber.StatusBadRequest, "page must be >= 1 and limit between 1 and 100")
	}

	resp, err := h.svc.List(c.UserContext(), params)
	if err != nil {
		h.logger.Error("list branches failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list branches")
	}
	return c.JSON(resp)
}

// GetBranch returns a single branch
// GET /api/branches/:id
func (h *Handler) GetBranch(c *fiber.Ctx) error {
	b, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, database.ErrBranchNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "branch not found")
		}
		h.logger.Error("get branch failed", zap.String("id", c.Params("id")), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get branch")
	}
	return c.JSON(b)
}

// ListCompanies returns the distinct company names
// GET /api/companies
func (h *Handler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.svc.Companies(c.UserContext())
	if err != nil {
		h.logger.Error("list companies failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list companies")
	}
	return c.JSON(fiber.Map{"companies": companies})
}

// ListCities returns the distinct city names
// GET /api/cities
func (h *Handler) ListCities(c *fiber.Ctx) error {
	cities, err := h.svc.Cities(c.UserContext())
	if err != nil {
		h.logger.Error("list cities failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list cities")
	}
	return c.JSON(fiber.Map{"cities": cities})
}

// Stats returns the directory counts
// GET /api/stats
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.svc.Stats(c.UserContext())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load stats")
	}
	return c.JSON(stats)
}
