package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"insurance-service/internal/models"
	"insurance-service/internal/services"
	"insurance-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type CoverageHandler struct {
	coverageService *services.CoverageService
}

func NewCoverageHandler(coverageService *services.CoverageService) *CoverageHandler {
	return &CoverageHandler{
		coverageService: coverageService,
	}
}

func (h *CoverageHandler) Register(app *fiber.App) {
	coverageGroup := app.Group("/insurance/api/v1/coverage")

	coverageGroup.Post("/toggle", h.ToggleCoverage)                        // POST /coverage/toggle - Toggle coverage for a date
	coverageGroup.Post("/activate/:policy_number", h.ActivateCoverage)     // POST /coverage/activate/:policy_number - Activate for today
	coverageGroup.Post("/deactivate/:policy_number", h.DeactivateCoverage) // POST /coverage/deactivate/:policy_number - Deactivate for today
	coverageGroup.Get("/status/:policy_number", h.GetCoverageStatus)       // GET /coverage/status/:policy_number?date= - Read-only status
}

// ToggleCoverage activates or deactivates daily coverage for a policy.
func (h *CoverageHandler) ToggleCoverage(c fiber.Ctx) error {
	var req models.ToggleCoverageRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing toggle request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	}

	response, err := h.coverageService.ToggleDailyCoverage(c.Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}

// ActivateCoverage activates coverage for today using query parameters for
// the risk inputs.
func (h *CoverageHandler) ActivateCoverage(c fiber.Ctx) error {
	activate := true
	req := models.ToggleCoverageRequest{
		PolicyNumber:   c.Params("policy_number"),
		ToggleCoverage: &activate,
		Location:       c.Query("location"),
		GigPlatform:    c.Query("gig_platform"),
	}
	if raw := c.Query("temperature"); raw != "" {
		temperature, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "temperature must be a number"))
		}
		req.Temperature = &temperature
	}

	response, err := h.coverageService.ToggleDailyCoverage(c.Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}

// DeactivateCoverage deactivates coverage for today.
func (h *CoverageHandler) DeactivateCoverage(c fiber.Ctx) error {
	activate := false
	req := models.ToggleCoverageRequest{
		PolicyNumber:   c.Params("policy_number"),
		ToggleCoverage: &activate,
	}

	response, err := h.coverageService.ToggleDailyCoverage(c.Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}

// GetCoverageStatus reports coverage status for a date (default today)
// without side effects.
func (h *CoverageHandler) GetCoverageStatus(c fiber.Ctx) error {
	policyNumber := c.Params("policy_number")
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "date must be in YYYY-MM-DD format"))
		}
	}

	response, err := h.coverageService.GetCoverageStatus(c.Context(), currentUserID(c), policyNumber, date)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}
