package handlers

import (
	"net/http"
	"time"

	"insurance-service/internal/models"
	"insurance-service/internal/premium"
	"insurance-service/internal/services"
	"insurance-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type PremiumHandler struct {
	planService *services.PlanService
	calc        *premium.Calculator
	location    *time.Location
	now         func() time.Time
}

func NewPremiumHandler(planService *services.PlanService, calc *premium.Calculator, location *time.Location) *PremiumHandler {
	return &PremiumHandler{
		planService: planService,
		calc:        calc,
		location:    location,
		now:         time.Now,
	}
}

func (h *PremiumHandler) Register(app *fiber.App) {
	premiumGroup := app.Group("/insurance/api/v1/premium")

	premiumGroup.Post("/calculate", h.CalculatePremium) // POST /premium/calculate - Quote a risk-adjusted premium
}

// CalculatePremium quotes the risk-adjusted premium for a plan without
// touching any policy. The clock is read once so every time-dependent factor
// in the quote agrees on the moment being priced.
func (h *PremiumHandler) CalculatePremium(c fiber.Ctx) error {
	var req models.PremiumQuoteRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	}

	plan, err := h.planService.GetActivePlan(c.Context(), req.PlanCode)
	if err != nil {
		return respondError(c, err)
	}

	now := h.now().In(h.location)

	calculated, breakdown := h.calc.DailyPremium(plan.DailyPremium, req.Temperature, req.Location, req.GigPlatform, now)

	noClaim := h.calc.NoClaimBonusMultiplier(req.NoClaimYears)
	final := calculated.Mul(noClaim).Round(2)

	switch {
	case req.IsMonthlySubscription:
		final = h.calc.MonthlyPremium(calculated.Mul(noClaim))
	case req.IsAnnualSubscription:
		final = h.calc.AnnualPremium(calculated.Mul(noClaim))
	}

	response := models.PremiumQuoteResponse{
		PlanCode:           plan.PlanCode,
		PlanName:           plan.PlanName,
		BasePremium:        plan.DailyPremium,
		CalculatedPremium:  calculated,
		WeatherMultiplier:  breakdown.Weather,
		LocationMultiplier: breakdown.Location,
		PlatformMultiplier: breakdown.Platform,
		TimeMultiplier:     breakdown.TimeOfDay,
		NoClaimDiscount:    noClaim,
		FinalPremium:       final,
		Currency:           "INR",
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}
