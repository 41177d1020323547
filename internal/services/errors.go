package services

import "errors"

// Sentinel errors for the client-facing failure taxonomy. All of them are
// non-retryable without an input change and map 1:1 onto API error codes.
var (
	ErrUnauthenticated    = errors.New("insurance: user not authenticated")
	ErrUnauthorizedAccess = errors.New("insurance: caller does not own this policy")

	ErrPolicyNotFound       = errors.New("insurance: policy not found")
	ErrPolicyNotActive      = errors.New("insurance: policy is not active")
	ErrActivePolicyExists   = errors.New("insurance: user already has an active policy")
	ErrPolicyNotRenewable   = errors.New("insurance: policy cannot be renewed in its current status")
	ErrPolicyNotCancellable = errors.New("insurance: policy cannot be cancelled in its current status")

	ErrPlanNotFound = errors.New("insurance: insurance plan not found")
	ErrPlanExists   = errors.New("insurance: insurance plan code already exists")

	ErrCoverageAlreadyActive   = errors.New("insurance: coverage is already active for this date")
	ErrCoverageAlreadyInactive = errors.New("insurance: coverage is already inactive for this date")
	ErrInsufficientFunds       = errors.New("insurance: insufficient wallet balance")
)

// ErrorCode maps a service error to its API error code. Unknown errors are
// reported as internal.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrUnauthorizedAccess):
		return "UNAUTHORIZED_ACCESS"
	case errors.Is(err, ErrPolicyNotFound):
		return "POLICY_NOT_FOUND"
	case errors.Is(err, ErrPolicyNotActive):
		return "POLICY_NOT_ACTIVE"
	case errors.Is(err, ErrActivePolicyExists):
		return "ACTIVE_POLICY_EXISTS"
	case errors.Is(err, ErrPolicyNotRenewable):
		return "POLICY_NOT_RENEWABLE"
	case errors.Is(err, ErrPolicyNotCancellable):
		return "POLICY_NOT_CANCELLABLE"
	case errors.Is(err, ErrPlanNotFound):
		return "PLAN_NOT_FOUND"
	case errors.Is(err, ErrPlanExists):
		return "PLAN_EXISTS"
	case errors.Is(err, ErrCoverageAlreadyActive):
		return "COVERAGE_ALREADY_ACTIVE"
	case errors.Is(err, ErrCoverageAlreadyInactive):
		return "COVERAGE_ALREADY_INACTIVE"
	case errors.Is(err, ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	default:
		return "INTERNAL_ERROR"
	}
}
