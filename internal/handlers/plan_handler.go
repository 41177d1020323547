package handlers

import (
	"net/http"
	"strconv"

	"insurance-service/internal/models"
	"insurance-service/internal/services"
	"insurance-service/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

func (h *PlanHandler) Register(app *fiber.App) {
	planGroup := app.Group("/insurance/api/v1/plans")

	planGroup.Get("/", h.ListActivePlans)                       // GET /plans - Active catalog
	planGroup.Get("/coverage-types", h.ListCoverageTypes)       // GET /plans/coverage-types - Distinct coverage types
	planGroup.Get("/:plan_code", h.GetPlan)                     // GET /plans/:plan_code - Plan detail
	planGroup.Get("/:plan_code/monthly", h.GetMonthlyPremium)   // GET /plans/:plan_code/monthly - Discounted 30-day price
	planGroup.Get("/:plan_code/annual", h.GetAnnualPremium)     // GET /plans/:plan_code/annual - Discounted 365-day price
	planGroup.Post("/", h.CreatePlan)                           // POST /plans - Create a plan
	planGroup.Put("/:plan_code", h.UpdatePlan)                  // PUT /plans/:plan_code - Update a plan
	planGroup.Delete("/:plan_code", h.DeactivatePlan)           // DELETE /plans/:plan_code - Soft-deactivate
}

// ListActivePlans returns the active catalog, optionally filtered by
// coverage_type, age, max_daily_premium or min_coverage query parameters.
func (h *PlanHandler) ListActivePlans(c fiber.Ctx) error {
	ctx := c.Context()

	var (
		plans []models.InsurancePlan
		err   error
	)

	switch {
	case c.Query("coverage_type") != "":
		plans, err = h.planService.ListPlansByCoverageType(ctx, models.CoverageType(c.Query("coverage_type")))
	case c.Query("age") != "":
		age, parseErr := strconv.Atoi(c.Query("age"))
		if parseErr != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "age must be an integer"))
		}
		plans, err = h.planService.ListEligiblePlansByAge(ctx, age)
	case c.Query("max_daily_premium") != "":
		budget, parseErr := decimal.NewFromString(c.Query("max_daily_premium"))
		if parseErr != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "max_daily_premium must be a number"))
		}
		plans, err = h.planService.ListPlansWithinBudget(ctx, budget)
	case c.Query("min_coverage") != "":
		minCoverage, parseErr := decimal.NewFromString(c.Query("min_coverage"))
		if parseErr != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "min_coverage must be a number"))
		}
		plans, err = h.planService.ListPlansWithMinCoverage(ctx, minCoverage)
	default:
		plans, err = h.planService.ListActivePlans(ctx)
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"plans": plans,
		"count": len(plans),
	}))
}

func (h *PlanHandler) ListCoverageTypes(c fiber.Ctx) error {
	types, err := h.planService.ListCoverageTypes(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"coverage_types": types,
	}))
}

func (h *PlanHandler) GetPlan(c fiber.Ctx) error {
	plan, err := h.planService.GetPlan(c.Context(), c.Params("plan_code"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(plan))
}

func (h *PlanHandler) GetMonthlyPremium(c fiber.Ctx) error {
	planCode := c.Params("plan_code")

	amount, err := h.planService.MonthlyPremiumForPlan(c.Context(), planCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"plan_code":       planCode,
		"monthly_premium": amount,
		"currency":        "INR",
	}))
}

func (h *PlanHandler) GetAnnualPremium(c fiber.Ctx) error {
	planCode := c.Params("plan_code")

	amount, err := h.planService.AnnualPremiumForPlan(c.Context(), planCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"plan_code":      planCode,
		"annual_premium": amount,
		"currency":       "INR",
	}))
}

func (h *PlanHandler) CreatePlan(c fiber.Ctx) error {
	var req models.UpsertPlanRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	}

	plan, err := h.planService.CreatePlan(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(plan))
}

func (h *PlanHandler) UpdatePlan(c fiber.Ctx) error {
	var req models.UpsertPlanRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	}

	plan, err := h.planService.UpdatePlan(c.Context(), c.Params("plan_code"), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(plan))
}

func (h *PlanHandler) DeactivatePlan(c fiber.Ctx) error {
	planCode := c.Params("plan_code")

	if err := h.planService.DeactivatePlan(c.Context(), planCode); err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"plan_code": planCode,
		"is_active": false,
	}))
}
