package handlers

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/kargolojik/internal/config"
	"github.com/foxxcyber/kargolojik/internal/services"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)

// Handler holds all handler dependencies
type Handler struct {
	svc       *services.BranchService
	cfg       *config.Config
	storage   *services.StorageService
	validate  *validator.Validate
	logger    *zap.Logger
	adminHash []byte
	now       func() time.Time
}

// New creates a new Handler instance. storage may be nil when sheet
// archiving is disabled. Admin login is disabled when no admin password is configured.
func New(svc *services.BranchService, cfg *config.Config, storage *services.StorageService, logger *zap.Logger) (*Handler, error) {
	h := &Handler{
		svc:      svc,
		cfg:      cfg,
		storage:  storage,
		validate: newValidator(),
		logger:   logger.Named("handlers"),
		now:      time.Now,
	}

	if cfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		h.adminHash = hash
	}

	return h, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("tr_phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic("register tr_phone validation: " + err.Error())
	}
	return v
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a 201 response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// validationMessage turns the first validator failure into a short message
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	return "invalid request body"
}
