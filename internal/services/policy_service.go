package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"insurance-service/internal/config"
	"insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PolicyService handles policy purchase and wallet maintenance. Coverage
// toggling lives in CoverageService.
type PolicyService struct {
	store    Store
	plans    PlanCatalog
	cfg      config.InsuranceConfig
	location *time.Location
	now      func() time.Time
}

func NewPolicyService(store Store, plans PlanCatalog, cfg config.InsuranceConfig, location *time.Location) *PolicyService {
	return &PolicyService{
		store:    store,
		plans:    plans,
		cfg:      cfg,
		location: location,
		now:      time.Now,
	}
}

// CreatePolicy purchases a policy for the authenticated user. A user holds at
// most one active policy at a time.
func (s *PolicyService) CreatePolicy(ctx context.Context, userID string, req *models.CreatePolicyRequest) (*models.PolicyResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	activeCount, err := s.store.CountActivePoliciesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if activeCount > 0 {
		return nil, ErrActivePolicyExists
	}

	plan, err := s.plans.GetActivePlan(ctx, req.PlanCode)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	policy := &models.Policy{
		ID:                uuid.New(),
		PolicyNumber:      s.generatePolicyNumber(now),
		UserID:            userID,
		PlanCode:          plan.PlanCode,
		StartDate:         startDate,
		EndDate:           startDate.AddDate(0, s.cfg.DefaultPolicyTermMonths, 0),
		Status:            models.PolicyActive,
		WalletBalance:     decimal.Zero,
		TotalPremiumPaid:  decimal.Zero,
		TotalClaimsAmount: decimal.Zero,
		AutoRenew:         true,
	}
	if req.AutoRenew != nil {
		policy.AutoRenew = *req.AutoRenew
	}
	if req.InitialWalletTopUp != nil && req.InitialWalletTopUp.IsPositive() {
		policy.WalletBalance = *req.InitialWalletTopUp
	}

	if err := s.store.CreatePolicy(ctx, policy); err != nil {
		return nil, err
	}

	slog.Info("policy created",
		"policy_number", policy.PolicyNumber,
		"user_id", userID,
		"plan_code", plan.PlanCode,
		"initial_balance", policy.WalletBalance.StringFixed(2))

	return s.toResponse(ctx, policy)
}

func (s *PolicyService) GetPolicy(ctx context.Context, callerID, policyNumber string) (*models.PolicyResponse, error) {
	policy, err := s.store.GetPolicy(ctx, policyNumber)
	if err != nil {
		return nil, err
	}
	if callerID != "" && policy.UserID != callerID {
		slog.Warn("policy access denied", "policy_number", policyNumber, "caller_id", callerID)
		return nil, ErrUnauthorizedAccess
	}
	return s.toResponse(ctx, policy)
}

func (s *PolicyService) GetUserPolicies(ctx context.Context, userID string) ([]models.PolicyResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	policies, err := s.store.ListPoliciesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.PolicyResponse, 0, len(policies))
	for i := range policies {
		resp, err := s.toResponse(ctx, &policies[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *PolicyService) GetActivePolicy(ctx context.Context, userID string) (*models.PolicyResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	policy, err := s.store.GetActivePolicyByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, policy)
}

// AdjustWallet credits or debits a policy wallet by a signed amount under the
// per-policy lock. A debit that would take the balance below zero fails with
// ErrInsufficientFunds and leaves the wallet untouched.
func (s *PolicyService) AdjustWallet(ctx context.Context, callerID, policyNumber string, amount decimal.Decimal) (*models.PolicyResponse, error) {
	var adjusted *models.Policy

	err := s.store.InPolicyTx(ctx, func(tx PolicyTx) error {
		policy, err := tx.LockPolicy(ctx, policyNumber)
		if err != nil {
			return err
		}
		if callerID != "" && policy.UserID != callerID {
			return ErrUnauthorizedAccess
		}

		newBalance := policy.WalletBalance.Add(amount)
		if newBalance.IsNegative() {
			return fmt.Errorf("%w: balance=%s, attempted deduction=%s",
				ErrInsufficientFunds, policy.WalletBalance.StringFixed(2), amount.Abs().StringFixed(2))
		}

		policy.WalletBalance = newBalance
		if err := tx.SavePolicy(ctx, policy); err != nil {
			return err
		}
		adjusted = policy
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("wallet adjusted",
		"policy_number", policyNumber,
		"amount", amount.StringFixed(2),
		"new_balance", adjusted.WalletBalance.StringFixed(2))

	return s.toResponse(ctx, adjusted)
}

func (s *PolicyService) GetWalletBalance(ctx context.Context, callerID, policyNumber string) (decimal.Decimal, error) {
	policy, err := s.store.GetPolicy(ctx, policyNumber)
	if err != nil {
		return decimal.Zero, err
	}
	if callerID != "" && policy.UserID != callerID {
		return decimal.Zero, ErrUnauthorizedAccess
	}
	return policy.WalletBalance, nil
}

// RenewPolicy extends an ACTIVE or EXPIRED policy and optionally tops up the
// wallet in the same transaction.
func (s *PolicyService) RenewPolicy(ctx context.Context, callerID string, req *models.RenewPolicyRequest) (*models.PolicyResponse, error) {
	months := s.cfg.DefaultRenewalTermMonths
	if req.RenewalMonths != nil {
		months = *req.RenewalMonths
	}

	var renewed *models.Policy

	err := s.store.InPolicyTx(ctx, func(tx PolicyTx) error {
		policy, err := tx.LockPolicy(ctx, req.PolicyNumber)
		if err != nil {
			return err
		}
		if callerID != "" && policy.UserID != callerID {
			return ErrUnauthorizedAccess
		}
		if policy.Status != models.PolicyActive && policy.Status != models.PolicyExpired {
			return fmt.Errorf("%w: status=%s", ErrPolicyNotRenewable, policy.Status)
		}

		policy.EndDate = policy.EndDate.AddDate(0, months, 0)
		policy.Status = models.PolicyActive
		if req.WalletTopUp != nil && req.WalletTopUp.IsPositive() {
			policy.WalletBalance = policy.WalletBalance.Add(*req.WalletTopUp)
		}

		if err := tx.SavePolicy(ctx, policy); err != nil {
			return err
		}
		renewed = policy
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("policy renewed",
		"policy_number", req.PolicyNumber,
		"new_end_date", renewed.EndDate.Format("2006-01-02"))

	return s.toResponse(ctx, renewed)
}

// CancelPolicy is terminal: status goes to CANCELLED and auto-renew is turned
// off. Only ACTIVE policies can be cancelled.
func (s *PolicyService) CancelPolicy(ctx context.Context, callerID, policyNumber string) (*models.PolicyResponse, error) {
	var cancelled *models.Policy

	err := s.store.InPolicyTx(ctx, func(tx PolicyTx) error {
		policy, err := tx.LockPolicy(ctx, policyNumber)
		if err != nil {
			return err
		}
		if callerID != "" && policy.UserID != callerID {
			return ErrUnauthorizedAccess
		}
		if policy.Status != models.PolicyActive {
			return fmt.Errorf("%w: status=%s", ErrPolicyNotCancellable, policy.Status)
		}

		policy.Status = models.PolicyCancelled
		policy.AutoRenew = false

		if err := tx.SavePolicy(ctx, policy); err != nil {
			return err
		}
		cancelled = policy
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("policy cancelled", "policy_number", policyNumber, "user_id", cancelled.UserID)

	return s.toResponse(ctx, cancelled)
}

func (s *PolicyService) generatePolicyNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("POL%d%02d%s", now.Year(), int(now.Month()), suffix)
}

func (s *PolicyService) toResponse(ctx context.Context, policy *models.Policy) (*models.PolicyResponse, error) {
	plan, err := s.plans.GetPlan(ctx, policy.PlanCode)
	if err != nil {
		return nil, err
	}

	today := s.now().In(s.location)
	daysRemaining := int(policy.EndDate.Sub(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	return &models.PolicyResponse{
		PolicyNumber:     policy.PolicyNumber,
		UserID:           policy.UserID,
		PlanCode:         plan.PlanCode,
		PlanName:         plan.PlanName,
		DailyPremium:     plan.DailyPremium,
		CoverageAmount:   plan.CoverageAmount,
		CoverageType:     plan.CoverageType,
		StartDate:        policy.StartDate.Format("2006-01-02"),
		EndDate:          policy.EndDate.Format("2006-01-02"),
		Status:           policy.Status,
		WalletBalance:    policy.WalletBalance,
		TotalPremiumPaid: policy.TotalPremiumPaid,
		AutoRenew:        policy.AutoRenew,
		DaysRemaining:    daysRemaining,
	}, nil
}
