package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"insurance-service/internal/models"
	"insurance-service/internal/premium"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CoverageService owns the per-day coverage state machine and the wallet
// debit. Every toggle runs inside a per-policy transaction so the balance
// check, premium computation and debit observe one consistent wallet value.
type CoverageService struct {
	store     Store
	plans     PlanLookup
	calc      *premium.Calculator
	publisher EventPublisher
	location  *time.Location
	now       func() time.Time
}

func NewCoverageService(
	store Store,
	plans PlanLookup,
	calc *premium.Calculator,
	publisher EventPublisher,
	location *time.Location,
) *CoverageService {
	return &CoverageService{
		store:     store,
		plans:     plans,
		calc:      calc,
		publisher: publisher,
		location:  location,
		now:       time.Now,
	}
}

// ToggleDailyCoverage activates or deactivates coverage for one calendar day.
// callerID is the gateway-verified user id; an empty callerID skips the
// ownership check (internal callers).
func (s *CoverageService) ToggleDailyCoverage(ctx context.Context, callerID string, req *models.ToggleCoverageRequest) (*models.CoverageResponse, error) {
	// The clock is read once so every multiplier inside this request sees
	// the same instant.
	now := s.now().In(s.location)

	coverageDate, err := s.resolveCoverageDate(req.CoverageDate, now)
	if err != nil {
		return nil, err
	}

	activate := req.ToggleCoverage != nil && *req.ToggleCoverage

	var (
		response *models.CoverageResponse
		evt      *CoverageEvent
	)

	err = s.store.InPolicyTx(ctx, func(tx PolicyTx) error {
		policy, err := tx.LockPolicy(ctx, req.PolicyNumber)
		if err != nil {
			return err
		}
		if callerID != "" && policy.UserID != callerID {
			return ErrUnauthorizedAccess
		}
		if policy.Status != models.PolicyActive {
			return ErrPolicyNotActive
		}

		record, err := tx.FindCoverageRecord(ctx, policy.ID, coverageDate)
		if err != nil {
			return err
		}

		if activate {
			response, evt, err = s.activate(ctx, tx, policy, record, req, coverageDate, now)
			return err
		}
		response, evt, err = s.deactivate(ctx, tx, policy, record, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evt)

	return response, nil
}

func (s *CoverageService) activate(
	ctx context.Context,
	tx PolicyTx,
	policy *models.Policy,
	record *models.CoverageRecord,
	req *models.ToggleCoverageRequest,
	coverageDate time.Time,
	now time.Time,
) (*models.CoverageResponse, *CoverageEvent, error) {
	if record != nil && record.IsActive {
		return nil, nil, ErrCoverageAlreadyActive
	}

	plan, err := s.plans.GetActivePlan(ctx, policy.PlanCode)
	if err != nil {
		return nil, nil, err
	}

	if record == nil {
		// Coverage amount is fixed at record creation, not re-read from the
		// plan on later activations of the same day.
		record = &models.CoverageRecord{
			ID:                    uuid.New(),
			PolicyID:              policy.ID,
			CoverageDate:          coverageDate,
			Status:                models.CoverageInactive,
			CoverageAmount:        plan.CoverageAmount,
			WeatherRiskMultiplier: decimal.NewFromInt(1),
		}
	}

	finalPremium, breakdown := s.calc.DailyPremium(plan.DailyPremium, req.Temperature, req.Location, req.GigPlatform, now)

	if policy.WalletBalance.LessThan(finalPremium) {
		return nil, nil, fmt.Errorf("%w: balance=%s, premium=%s",
			ErrInsufficientFunds, policy.WalletBalance.StringFixed(2), finalPremium.StringFixed(2))
	}

	policy.WalletBalance = policy.WalletBalance.Sub(finalPremium)
	policy.TotalPremiumPaid = policy.TotalPremiumPaid.Add(finalPremium)

	record.Status = models.CoverageActive
	record.IsActive = true
	record.StartTime = &now
	record.EndTime = nil
	record.PremiumAmount = finalPremium
	record.WeatherRiskMultiplier = s.calc.WeatherRiskMultiplier(req.Temperature, req.Location, now)
	if req.Location != "" {
		location := req.Location
		record.Location = &location
	}
	if req.GigPlatform != "" {
		gigPlatform := req.GigPlatform
		record.GigPlatform = &gigPlatform
	}

	if err := tx.SaveCoverageRecord(ctx, record); err != nil {
		return nil, nil, err
	}
	if err := tx.SavePolicy(ctx, policy); err != nil {
		return nil, nil, err
	}

	slog.Info("coverage activated",
		"policy_number", policy.PolicyNumber,
		"coverage_date", record.DateKey(),
		"premium_charged", finalPremium.StringFixed(2),
		"weather_multiplier", breakdown.Weather.String(),
		"location_multiplier", breakdown.Location.String(),
		"platform_multiplier", breakdown.Platform.String(),
		"time_multiplier", breakdown.TimeOfDay.String())

	response := buildCoverageResponse(policy, record, "Coverage activated successfully", finalPremium)
	event := &CoverageEvent{
		PolicyNumber:   policy.PolicyNumber,
		UserID:         policy.UserID,
		CoverageDate:   record.DateKey(),
		Action:         CoverageEventActivated,
		PremiumCharged: finalPremium,
	}
	return response, event, nil
}

func (s *CoverageService) deactivate(
	ctx context.Context,
	tx PolicyTx,
	policy *models.Policy,
	record *models.CoverageRecord,
	now time.Time,
) (*models.CoverageResponse, *CoverageEvent, error) {
	if record == nil || !record.IsActive {
		return nil, nil, ErrCoverageAlreadyInactive
	}

	record.Status = models.CoverageInactive
	record.IsActive = false
	record.EndTime = &now

	// The premium charged at activation stays paid. No wallet mutation here.
	if err := tx.SaveCoverageRecord(ctx, record); err != nil {
		return nil, nil, err
	}

	slog.Info("coverage deactivated",
		"policy_number", policy.PolicyNumber,
		"coverage_date", record.DateKey())

	response := buildCoverageResponse(policy, record, "Coverage deactivated successfully", record.PremiumAmount)
	event := &CoverageEvent{
		PolicyNumber:   policy.PolicyNumber,
		UserID:         policy.UserID,
		CoverageDate:   record.DateKey(),
		Action:         CoverageEventDeactivated,
		PremiumCharged: decimal.Zero,
	}
	return response, event, nil
}

// GetCoverageStatus reports the coverage state for a date without creating a
// record: a missing record reads as INACTIVE with no premium paid.
func (s *CoverageService) GetCoverageStatus(ctx context.Context, callerID, policyNumber, dateStr string) (*models.CoverageStatusResponse, error) {
	now := s.now().In(s.location)

	coverageDate, err := s.resolveCoverageDate(dateStr, now)
	if err != nil {
		return nil, err
	}

	policy, err := s.store.GetPolicy(ctx, policyNumber)
	if err != nil {
		return nil, err
	}
	if callerID != "" && policy.UserID != callerID {
		return nil, ErrUnauthorizedAccess
	}

	record, err := s.store.FindCoverageRecord(ctx, policy.ID, coverageDate)
	if err != nil {
		return nil, err
	}

	response := &models.CoverageStatusResponse{
		PolicyNumber:     policyNumber,
		CoverageDate:     coverageDate.Format("2006-01-02"),
		IsCoverageActive: false,
		CurrentStatus:    models.CoverageInactive,
		PremiumPaidToday: decimal.Zero,
		WalletBalance:    policy.WalletBalance,
	}
	if record != nil {
		response.IsCoverageActive = record.IsActive
		response.CurrentStatus = record.Status
		response.PremiumPaidToday = record.PremiumAmount
		response.GigPlatform = record.GigPlatform
		response.Location = record.Location
	}
	return response, nil
}

func (s *CoverageService) resolveCoverageDate(dateStr string, now time.Time) (time.Time, error) {
	if dateStr == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid coverage date %q: %w", dateStr, err)
	}
	return parsed, nil
}

func (s *CoverageService) publish(ctx context.Context, evt *CoverageEvent) {
	if s.publisher == nil || evt == nil {
		return
	}
	if err := s.publisher.PublishCoverageEvent(ctx, *evt); err != nil {
		slog.Warn("failed to publish coverage event",
			"policy_number", evt.PolicyNumber,
			"action", evt.Action,
			"error", err)
	}
}

func buildCoverageResponse(policy *models.Policy, record *models.CoverageRecord, message string, premiumCharged decimal.Decimal) *models.CoverageResponse {
	return &models.CoverageResponse{
		PolicyNumber:   policy.PolicyNumber,
		CoverageDate:   record.DateKey(),
		Status:         record.Status,
		CoverageActive: record.IsActive,
		Message:        message,
		PremiumCharged: premiumCharged,
		CoverageAmount: record.CoverageAmount,
		WalletBalance:  policy.WalletBalance,
		GigPlatform:    record.GigPlatform,
		StartTime:      record.StartTime,
		EndTime:        record.EndTime,
	}
}
