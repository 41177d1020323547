package services

import (
	"context"
	"sync"
	"time"

	"insurance-service/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store used by the service tests. InPolicyTx stages
// writes and commits them only when the callback succeeds, mirroring the
// rollback behavior of the postgres implementation.
type memStore struct {
	mu       sync.Mutex
	policies map[string]*models.Policy
	records  map[string]*models.CoverageRecord
}

func newMemStore() *memStore {
	return &memStore{
		policies: make(map[string]*models.Policy),
		records:  make(map[string]*models.CoverageRecord),
	}
}

func recordKey(policyID uuid.UUID, date time.Time) string {
	return policyID.String() + "|" + date.Format("2006-01-02")
}

func (m *memStore) CreatePolicy(_ context.Context, policy *models.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *policy
	m.policies[policy.PolicyNumber] = &cp
	return nil
}

func (m *memStore) GetPolicy(_ context.Context, policyNumber string) (*models.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	policy, ok := m.policies[policyNumber]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	cp := *policy
	return &cp, nil
}

func (m *memStore) ListPoliciesByUser(_ context.Context, userID string) ([]models.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Policy
	for _, policy := range m.policies {
		if policy.UserID == userID {
			out = append(out, *policy)
		}
	}
	return out, nil
}

func (m *memStore) GetActivePolicyByUser(_ context.Context, userID string) (*models.Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, policy := range m.policies {
		if policy.UserID == userID && policy.Status == models.PolicyActive {
			cp := *policy
			return &cp, nil
		}
	}
	return nil, ErrPolicyNotFound
}

func (m *memStore) CountActivePoliciesByUser(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, policy := range m.policies {
		if policy.UserID == userID && policy.Status == models.PolicyActive {
			count++
		}
	}
	return count, nil
}

func (m *memStore) FindCoverageRecord(_ context.Context, policyID uuid.UUID, date time.Time) (*models.CoverageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[recordKey(policyID, date)]
	if !ok {
		return nil, nil
	}
	cp := *record
	return &cp, nil
}

func (m *memStore) InPolicyTx(_ context.Context, fn func(tx PolicyTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		store:    m,
		policies: make(map[string]*models.Policy),
		records:  make(map[string]*models.CoverageRecord),
	}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.policies {
		m.policies[k] = v
	}
	for k, v := range tx.records {
		m.records[k] = v
	}
	return nil
}

type memTx struct {
	store    *memStore
	policies map[string]*models.Policy
	records  map[string]*models.CoverageRecord
}

func (t *memTx) LockPolicy(_ context.Context, policyNumber string) (*models.Policy, error) {
	if staged, ok := t.policies[policyNumber]; ok {
		cp := *staged
		return &cp, nil
	}
	policy, ok := t.store.policies[policyNumber]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	cp := *policy
	return &cp, nil
}

func (t *memTx) SavePolicy(_ context.Context, policy *models.Policy) error {
	cp := *policy
	t.policies[policy.PolicyNumber] = &cp
	return nil
}

func (t *memTx) FindCoverageRecord(_ context.Context, policyID uuid.UUID, date time.Time) (*models.CoverageRecord, error) {
	key := recordKey(policyID, date)
	if staged, ok := t.records[key]; ok {
		cp := *staged
		return &cp, nil
	}
	record, ok := t.store.records[key]
	if !ok {
		return nil, nil
	}
	cp := *record
	return &cp, nil
}

func (t *memTx) SaveCoverageRecord(_ context.Context, record *models.CoverageRecord) error {
	cp := *record
	t.records[recordKey(record.PolicyID, record.CoverageDate)] = &cp
	return nil
}

// stubPlans serves a single fixed plan; it satisfies PlanLookup and
// PlanCatalog.
type stubPlans struct {
	plan *models.InsurancePlan
	err  error
}

func (s *stubPlans) GetActivePlan(_ context.Context, planCode string) (*models.InsurancePlan, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.plan == nil || s.plan.PlanCode != planCode {
		return nil, ErrPlanNotFound
	}
	cp := *s.plan
	return &cp, nil
}

func (s *stubPlans) GetPlan(ctx context.Context, planCode string) (*models.InsurancePlan, error) {
	return s.GetActivePlan(ctx, planCode)
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []CoverageEvent
}

func (p *capturePublisher) PublishCoverageEvent(_ context.Context, event CoverageEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []CoverageEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CoverageEvent, len(p.events))
	copy(out, p.events)
	return out
}

func testPlan() *models.InsurancePlan {
	return &models.InsurancePlan{
		ID:             uuid.New(),
		PlanCode:       "GIG_BASIC",
		PlanName:       "Gig Basic",
		DailyPremium:   decimal.RequireFromString("5.00"),
		CoverageAmount: decimal.RequireFromString("100000.00"),
		CoverageType:   models.CoverageAccident,
		IsActive:       true,
	}
}

func testPolicy(userID, balance string) *models.Policy {
	return &models.Policy{
		ID:                uuid.New(),
		PolicyNumber:      "POL202601TESTABCD",
		UserID:            userID,
		PlanCode:          "GIG_BASIC",
		StartDate:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
		Status:            models.PolicyActive,
		WalletBalance:     decimal.RequireFromString(balance),
		TotalPremiumPaid:  decimal.Zero,
		TotalClaimsAmount: decimal.Zero,
		AutoRenew:         true,
	}
}
