package handlers

import (
	"net/http"

	"insurance-service/internal/models"
	"insurance-service/internal/services"
	"insurance-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

type PolicyHandler struct {
	policyService *services.PolicyService
}

func NewPolicyHandler(policyService *services.PolicyService) *PolicyHandler {
	return &PolicyHandler{
		policyService: policyService,
	}
}

func (h *PolicyHandler) Register(app *fiber.App) {
	policyGroup := app.Group("/insurance/api/v1/policies")

	policyGroup.Post("/", h.CreatePolicy)                              // POST /policies - Purchase a policy
	policyGroup.Get("/me", h.GetMyPolicies)                            // GET /policies/me - List caller's policies
	policyGroup.Get("/me/active", h.GetMyActivePolicy)                 // GET /policies/me/active - Caller's active policy
	policyGroup.Get("/:policy_number", h.GetPolicy)                    // GET /policies/:policy_number - Policy detail
	policyGroup.Get("/:policy_number/wallet", h.GetWalletBalance)      // GET /policies/:policy_number/wallet - Wallet balance
	policyGroup.Post("/:policy_number/wallet/adjust", h.AdjustWallet)  // POST /policies/:policy_number/wallet/adjust - Top up or debit
	policyGroup.Post("/renew", h.RenewPolicy)                          // POST /policies/renew - Extend the policy term
	policyGroup.Post("/:policy_number/cancel", h.CancelPolicy)         // POST /policies/:policy_number/cancel - Terminal cancellation
}

func (h *PolicyHandler) CreatePolicy(c fiber.Ctx) error {
	var req models.CreatePolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	}

	response, err := h.policyService.CreatePolicy(c.Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(response))
}

func (h *PolicyHandler) GetMyPolicies(c fiber.Ctx) error {
	responses, err := h.policyService.GetUserPolicies(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"policies": responses,
		"count":    len(responses),
	}))
}

func (h *PolicyHandler) GetMyActivePolicy(c fiber.Ctx) error {
	response, err := h.policyService.GetActivePolicy(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}

func (h *PolicyHandler) GetPolicy(c fiber.Ctx) error {
	response, err := h.policyService.GetPolicy(c.Context(), currentUserID(c), c.Params("policy_number"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}

func (h *PolicyHandler) GetWalletBalance(c fiber.Ctx) error {
	policyNumber := c.Params("policy_number")

	balance, err := h.policyService.GetWalletBalance(c.Context(), currentUserID(c), policyNumber)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{
		"policy_number":  policyNumber,
		"wallet_balance": balance,
		"currency":       "INR",
	}))
}

func (h *PolicyHandler) AdjustWallet(c fiber.Ctx) error {
	var req models.WalletAdjustRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	}

	response, err := h.policyService.AdjustWallet(c.Context(), currentUserID(c), c.Params("policy_number"), req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}

func (h *PolicyHandler) RenewPolicy(c fiber.Ctx) error {
	var req models.RenewPolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", err.Error()))
	}

	response, err := h.policyService.RenewPolicy(c.Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}

func (h *PolicyHandler) CancelPolicy(c fiber.Ctx) error {
	response, err := h.policyService.CancelPolicy(c.Context(), currentUserID(c), c.Params("policy_number"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(response))
}
