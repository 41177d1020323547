package services

import (
	"context"
	"time"

	"insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence contract for policies and coverage records.
// The postgres implementation lives in internal/repository; tests use an
// in-memory implementation.
type Store interface {
	CreatePolicy(ctx context.Context, policy *models.Policy) error
	GetPolicy(ctx context.Context, policyNumber string) (*models.Policy, error)
	ListPoliciesByUser(ctx context.Context, userID string) ([]models.Policy, error)
	GetActivePolicyByUser(ctx context.Context, userID string) (*models.Policy, error)
	CountActivePoliciesByUser(ctx context.Context, userID string) (int, error)

	// FindCoverageRecord returns (nil, nil) when no record exists for the
	// policy and date. The read path must never create one.
	FindCoverageRecord(ctx context.Context, policyID uuid.UUID, date time.Time) (*models.CoverageRecord, error)

	// InPolicyTx runs fn inside a transaction. All balance-check-then-debit
	// sequences go through it: PolicyTx.LockPolicy takes a per-policy
	// exclusive lock so concurrent toggles against the same policy serialize,
	// while different policies proceed in parallel. If fn returns an error
	// the transaction rolls back and no partial state is observable.
	InPolicyTx(ctx context.Context, fn func(tx PolicyTx) error) error
}

// PolicyTx is the transactional view handed to InPolicyTx callbacks.
type PolicyTx interface {
	LockPolicy(ctx context.Context, policyNumber string) (*models.Policy, error)
	SavePolicy(ctx context.Context, policy *models.Policy) error
	FindCoverageRecord(ctx context.Context, policyID uuid.UUID, date time.Time) (*models.CoverageRecord, error)
	SaveCoverageRecord(ctx context.Context, record *models.CoverageRecord) error
}

// PlanStore is the persistence contract for the plan catalog.
type PlanStore interface {
	CreatePlan(ctx context.Context, plan *models.InsurancePlan) error
	GetPlanByCode(ctx context.Context, planCode string) (*models.InsurancePlan, error)
	GetActivePlanByCode(ctx context.Context, planCode string) (*models.InsurancePlan, error)
	ListActivePlans(ctx context.Context) ([]models.InsurancePlan, error)
	ListPlansByCoverageType(ctx context.Context, coverageType models.CoverageType) ([]models.InsurancePlan, error)
	ListEligiblePlansByAge(ctx context.Context, age int) ([]models.InsurancePlan, error)
	ListPlansWithinBudget(ctx context.Context, maxDailyPremium decimal.Decimal) ([]models.InsurancePlan, error)
	ListPlansWithMinCoverage(ctx context.Context, minCoverage decimal.Decimal) ([]models.InsurancePlan, error)
	ListCoverageTypes(ctx context.Context) ([]models.CoverageType, error)
	UpdatePlan(ctx context.Context, plan *models.InsurancePlan) error
}

// PlanLookup is the narrow catalog view the coverage ledger needs.
type PlanLookup interface {
	GetActivePlan(ctx context.Context, planCode string) (*models.InsurancePlan, error)
}

// PlanCatalog adds the lookup that ignores the active flag, used when
// rendering policies whose plan has since been retired.
type PlanCatalog interface {
	PlanLookup
	GetPlan(ctx context.Context, planCode string) (*models.InsurancePlan, error)
}

// PlanCache is a small string cache for plan lookups. Get returns ("", nil)
// on a miss.
type PlanCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CoverageEvent describes a coverage toggle for downstream consumers.
type CoverageEvent struct {
	PolicyNumber   string          `json:"policy_number"`
	UserID         string          `json:"user_id"`
	CoverageDate   string          `json:"coverage_date"`
	Action         string          `json:"action"`
	PremiumCharged decimal.Decimal `json:"premium_charged"`
}

const (
	CoverageEventActivated   = "ACTIVATED"
	CoverageEventDeactivated = "DEACTIVATED"
)

// EventPublisher pushes coverage events to the message broker. Publishing is
// best-effort: the toggle result stands whether or not the event goes out.
type EventPublisher interface {
	PublishCoverageEvent(ctx context.Context, event CoverageEvent) error
}
