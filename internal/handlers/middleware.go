package handlers

import (
	"log/slog"
	"net/http"

	"insurance-service/internal/services"
	"insurance-service/internal/utils"

	"github.com/gofiber/fiber/v3"
)

const userIDKey = "user_id"

// UserContext pulls the gateway-verified X-User-ID header into the request
// locals. JWT verification happens at the gateway; this service only trusts
// the forwarded identity.
func UserContext() fiber.Handler {
	return func(c fiber.Ctx) error {
		if userID := c.Get("X-User-ID"); userID != "" {
			c.Locals(userIDKey, userID)
		}
		return c.Next()
	}
}

func currentUserID(c fiber.Ctx) string {
	if userID, ok := c.Locals(userIDKey).(string); ok {
		return userID
	}
	return ""
}

func statusForCode(code string) int {
	switch code {
	case "UNAUTHENTICATED":
		return http.StatusUnauthorized
	case "UNAUTHORIZED_ACCESS":
		return http.StatusForbidden
	case "POLICY_NOT_FOUND", "PLAN_NOT_FOUND":
		return http.StatusNotFound
	case "POLICY_NOT_ACTIVE", "ACTIVE_POLICY_EXISTS", "POLICY_NOT_RENEWABLE", "POLICY_NOT_CANCELLABLE",
		"PLAN_EXISTS", "COVERAGE_ALREADY_ACTIVE", "COVERAGE_ALREADY_INACTIVE":
		return http.StatusConflict
	case "INSUFFICIENT_FUNDS":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps service errors onto the API error envelope. Unexpected
// errors are logged and reported without internal detail.
func respondError(c fiber.Ctx, err error) error {
	code := services.ErrorCode(err)
	if code == "INTERNAL_ERROR" {
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse(code, "an unexpected error occurred"))
	}
	return c.Status(statusForCode(code)).JSON(utils.CreateErrorResponse(code, err.Error()))
}
