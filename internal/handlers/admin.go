package handlers

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/kargolojik/internal/database"
	"github.com/foxxcyber/kargolojik/internal/importer"
	"github.com/foxxcyber/kargolojik/internal/middleware"
	"github.com/foxxcyber/kargolojik/internal/models"
)

// MaxSheetSize bounds uploaded branch sheets
const MaxSheetSize = 20 << 20

// Login exchanges the configured admin credentials for a token
// POST /api/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, validationMessage(err))
	}

	if h.adminHash == nil {
		return Error(c, fiber.StatusServiceUnavailable, "admin login is not configured")
	}
	if !strings.EqualFold(req.Email, h.cfg.AdminEmail) ||
		bcrypt.CompareHashAndPassword(h.adminHash, []byte(req.Password)) != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, h.cfg.AdminEmail, models.RoleAdmin, h.cfg.JWTExpiry, h.now())
	if err != nil {
		h.logger.Error("sign token failed", zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return Success(c, models.AuthResponse{
		Token:     token,
		ExpiresIn: int64(h.cfg.JWTExpiry.Seconds()),
	})
}

// CreateBranch adds a branch
// POST /api/admin/branches
func (h *Handler) CreateBranch(c *fiber.Ctx) error {
	var req models.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, validationMessage(err))
	}

	b, err := h.svc.Create(c.UserContext(), &req)
	if err != nil {
		h.logger.Error("create branch failed", zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to create branch")
	}

	h.logger.Info("branch created", zap.String("id", b.ID), zap.String("by", middleware.GetUserEmail(c)))
	return Created(c, b)
}

// UpdateBranch changes the given fields of a branch
// PUT /api/admin/branches/:id
func (h *Handler) UpdateBranch(c *fiber.Ctx) error {
	var req models.UpdateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, validationMessage(err))
	}

	b, err := h.svc.Update(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		if errors.Is(err, database.ErrBranchNotFound) {
			return Error(c, fiber.StatusNotFound, "branch not found")
		}
		h.logger.Error("update branch failed", zap.String("id", c.Params("id")), zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to update branch")
	}

	return Success(c, b)
}

// DeleteBranch removes a branch
// DELETE /api/admin/branches/:id
func (h *Handler) DeleteBranch(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, database.ErrBranchNotFound) {
			return Error(c, fiber.StatusNotFound, "branch not found")
		}
		h.logger.Error("delete branch failed", zap.String("id", c.Params("id")), zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to delete branch")
	}

	return Success(c, fiber.Map{"deleted": c.Params("id")})
}

// SeedSampleBranches upserts the demo branches
// POST /api/admin/seed/sample-branches
func (h *Handler) SeedSampleBranches(c *fiber.Ctx) error {
	res, err := h.svc.SeedSamples(c.UserContext())
	if err != nil {
		h.logger.Error("seed failed", zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to seed branches")
	}
	return Success(c, res)
}

// ImportBranches replaces one company's branches with an uploaded XLSX sheet
// POST /api/admin/import
func (h *Handler) ImportBranches(c *fiber.Ctx) error {
	company := strings.TrimSpace(c.FormValue("company"))
	if company == "" {
		return Error(c, fiber.StatusBadRequest, "company is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "file is required")
	}
	if file.Size > MaxSheetSize {
		return Error(c, fiber.StatusRequestEntityTooLarge, "sheet too large")
	}

	f, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "failed to read file")
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "failed to read file")
	}

	res, err := h.svc.Import(c.UserContext(), bytes.NewReader(raw), company)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrNoNameColumn), errors.Is(err, importer.ErrEmptyWorkbook):
			return Error(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, importer.ErrNoCompany), errors.Is(err, importer.ErrBadWorkbook):
			return Error(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error("import failed", zap.String("company", company), zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to import branches")
	}

	if h.storage != nil {
		// Archiving is best effort, the import has already been applied
		up, err := h.storage.Archive(c.UserContext(), company, h.now(), bytes.NewReader(raw), int64(len(raw)))
		if err != nil {
			h.logger.Warn("archive sheet failed", zap.String("company", company), zap.Error(err))
		} else {
			h.logger.Info("sheet archived", zap.String("key", up.Key))
		}
	}

	return Success(c, res)
}
