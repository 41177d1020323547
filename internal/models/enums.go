package models

type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "ACTIVE"
	PolicyExpired   PolicyStatus = "EXPIRED"
	PolicyCancelled PolicyStatus = "CANCELLED"
	PolicySuspended PolicyStatus = "SUSPENDED"
)

type CoverageStatus string

const (
	CoverageActive    CoverageStatus = "ACTIVE"
	CoverageInactive  CoverageStatus = "INACTIVE"
	CoveragePending   CoverageStatus = "PENDING"
	CoverageCancelled CoverageStatus = "CANCELLED"
)

type CoverageType string

const (
	CoverageAccident      CoverageType = "ACCIDENT"
	CoverageHealth        CoverageType = "HEALTH"
	CoverageComprehensive CoverageType = "COMPREHENSIVE"
)
