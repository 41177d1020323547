package premium

import (
	"testing"
	"time"

	"insurance-service/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testConfig() config.InsuranceConfig {
	return config.InsuranceConfig{
		WeatherThresholdTemp:  35,
		WeatherMaxMultiplier:  1.5,
		HighRiskZones:         []string{"Mumbai", "Chennai", "Delhi", "Bangalore"},
		MonsoonCities:         []string{"Mumbai", "Chennai", "Kolkata"},
		HighRiskGigPlatforms:  []string{"ZEPTO", "INSTAMART"},
		NightTimeGigPlatforms: []string{"SWIGGY", "ZOMATO"},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// January 15th, 18:30 - evening peak, outside the monsoon window.
var eveningWinter = time.Date(2026, time.January, 15, 18, 30, 0, 0, time.UTC)

func TestDailyPremiumComposesAllFactors(t *testing.T) {
	calc := NewCalculator(testConfig())

	// 5.00 x 1.1 (40C) x 1.4 (Mumbai) x 1.3 (ZEPTO) x 1.2 (evening) = 12.012
	final, breakdown := calc.DailyPremium(
		decimal.RequireFromString("5.00"),
		floatPtr(40),
		"Mumbai Industrial Area",
		"ZEPTO",
		eveningWinter,
	)

	assert.Equal(t, "12.01", final.StringFixed(2))
	assert.Equal(t, "1.1", breakdown.Weather.String())
	assert.Equal(t, "1.4", breakdown.Location.String())
	assert.Equal(t, "1.3", breakdown.Platform.String())
	assert.Equal(t, "1.2", breakdown.TimeOfDay.String())
}

func TestDailyPremiumSkipsWeatherWithoutTemperature(t *testing.T) {
	calc := NewCalculator(testConfig())

	// Monsoon city in July, but no temperature reading was supplied: the
	// whole weather factor sits out of the daily price.
	monsoonEvening := time.Date(2026, time.July, 15, 18, 30, 0, 0, time.UTC)
	final, breakdown := calc.DailyPremium(
		decimal.RequireFromString("10.00"),
		nil,
		"Mumbai",
		"",
		monsoonEvening,
	)

	assert.Equal(t, "1", breakdown.Weather.String())
	assert.Equal(t, "16.80", final.StringFixed(2)) // 10 x 1.4 x 1.2
}

func TestDailyPremiumRoundsOnceAtTheEnd(t *testing.T) {
	calc := NewCalculator(testConfig())

	// 3.33 x 1.1 x 1.2 = 4.3956 -> 4.40; rounding each step instead would
	// give 3.66 x 1.2 = 4.392 -> 4.39.
	final, _ := calc.DailyPremium(
		decimal.RequireFromString("3.33"),
		floatPtr(40),
		"",
		"",
		eveningWinter,
	)

	assert.Equal(t, "4.40", final.StringFixed(2))
}

func TestWeatherRiskMultiplier(t *testing.T) {
	calc := NewCalculator(testConfig())

	tests := []struct {
		name        string
		temperature *float64
		location    string
		now         time.Time
		want        string
	}{
		{"no temperature, no monsoon", nil, "Pune", eveningWinter, "1"},
		{"below threshold", floatPtr(30), "", eveningWinter, "1"},
		{"just above threshold, under one full step", floatPtr(38), "", eveningWinter, "1"},
		{"one heat step", floatPtr(40), "", eveningWinter, "1.1"},
		{"two heat steps", floatPtr(45), "", eveningWinter, "1.2"},
		{"heat capped at max", floatPtr(70), "", eveningWinter, "1.5"},
		{"cold surcharge", floatPtr(5), "", eveningWinter, "1.2"},
		{"monsoon city in season", nil, "Mumbai", time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC), "1.3"},
		{"monsoon city out of season", nil, "Mumbai", time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), "1"},
		{"non-monsoon city in season", nil, "Pune", time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC), "1"},
		{"heat and monsoon stack", floatPtr(40), "Chennai", time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC), "1.43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.WeatherRiskMultiplier(tt.temperature, tt.location, tt.now)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLocationRiskMultiplier(t *testing.T) {
	calc := NewCalculator(testConfig())

	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"empty location is neutral", "", "1"},
		{"unknown location is neutral", "Jaipur Old Town", "1"},
		{"configured high-risk zone", "Delhi NCR", "1.4"},
		{"zone wins over hazard keyword", "Mumbai Industrial Area", "1.4"},
		{"industrial area", "Pune Industrial Estate", "1.5"},
		{"construction site", "construction site sector 9", "1.5"},
		{"highway", "NH-48 Highway Stretch", "1.5"},
		{"residential discount", "Green Park Residential", "0.9"},
		{"society discount", "Shanti Co-op Society", "0.9"},
		{"colony discount", "defence colony", "0.9"},
		{"case insensitive zone match", "mumbai suburb", "1.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.LocationRiskMultiplier(tt.location)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGigPlatformRiskMultiplier(t *testing.T) {
	calc := NewCalculator(testConfig())

	noon := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	lateNight := time.Date(2026, time.January, 15, 23, 30, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, time.January, 15, 5, 30, 0, 0, time.UTC)
	nightStart := time.Date(2026, time.January, 15, 20, 0, 0, 0, time.UTC)
	nightEnd := time.Date(2026, time.January, 15, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		platform string
		now      time.Time
		want     string
	}{
		{"empty platform is neutral", "", noon, "1"},
		{"unknown platform is neutral", "UBER", lateNight, "1"},
		{"quick-commerce surcharge any hour", "ZEPTO", noon, "1.3"},
		{"quick-commerce case insensitive", "zepto", lateNight, "1.3"},
		{"night platform during the day", "SWIGGY", noon, "1"},
		{"night platform late night", "SWIGGY", lateNight, "1.4"},
		{"night platform early morning", "ZOMATO", earlyMorning, "1.4"},
		{"night window includes 20:00", "SWIGGY", nightStart, "1.4"},
		{"night window excludes 06:00", "SWIGGY", nightEnd, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.GigPlatformRiskMultiplier(tt.platform, tt.now)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeOfDayMultiplier(t *testing.T) {
	calc := NewCalculator(testConfig())

	at := func(hour, minute int) time.Time {
		return time.Date(2026, time.January, 15, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"evening peak start", at(17, 0), "1.2"},
		{"evening peak end", at(20, 59), "1.2"},
		{"after evening peak", at(21, 0), "1"},
		{"late night start", at(22, 0), "1.5"},
		{"past midnight", at(2, 30), "1.5"},
		{"late night end", at(4, 59), "1.5"},
		{"after late night", at(5, 0), "1"},
		{"midday lull start", at(11, 0), "0.9"},
		{"midday lull end", at(14, 59), "0.9"},
		{"after midday lull", at(15, 0), "1"},
		{"plain morning", at(9, 0), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.TimeOfDayMultiplier(tt.now)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSubscriptionPremiums(t *testing.T) {
	calc := NewCalculator(testConfig())
	daily := decimal.RequireFromString("10.00")

	assert.Equal(t, "270.00", calc.MonthlyPremium(daily).StringFixed(2))
	assert.Equal(t, "2920.00", calc.AnnualPremium(daily).StringFixed(2))
}

func TestNoClaimBonusMultiplier(t *testing.T) {
	calc := NewCalculator(testConfig())

	tests := []struct {
		years int
		want  string
	}{
		{0, "1"},
		{1, "0.95"},
		{3, "0.85"},
		{5, "0.75"},
		{10, "0.75"}, // capped at 25%
	}

	for _, tt := range tests {
		got := calc.NoClaimBonusMultiplier(tt.years)
		assert.Equal(t, tt.want, got.String(), "years=%d", tt.years)
	}
}

func TestRefundAmount(t *testing.T) {
	calc := NewCalculator(testConfig())
	paid := decimal.RequireFromString("12.00")
	start := time.Date(2026, time.January, 15, 8, 0, 0, 0, time.UTC)

	after := func(d time.Duration) *time.Time {
		end := start.Add(d)
		return &end
	}

	assert.Equal(t, "6.00", calc.RefundAmount(paid, &start, after(2*time.Hour)).StringFixed(2))
	assert.Equal(t, "3.00", calc.RefundAmount(paid, &start, after(4*time.Hour)).StringFixed(2))
	assert.Equal(t, "3.00", calc.RefundAmount(paid, &start, after(8*time.Hour)).StringFixed(2))
	assert.Equal(t, "0.00", calc.RefundAmount(paid, &start, after(9*time.Hour)).StringFixed(2))
	assert.Equal(t, "0", calc.RefundAmount(paid, nil, nil).String())
	assert.Equal(t, "0", calc.RefundAmount(paid, &start, nil).String())
}
