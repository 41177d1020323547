package premium

import (
	"math"
	"strings"
	"time"

	"insurance-service/internal/config"

	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	heatStepRisk       = decimal.NewFromFloat(0.1)
	coldMultiplier     = decimal.NewFromFloat(1.2)
	monsoonMultiplier  = decimal.NewFromFloat(1.3)
	highRiskZoneFactor = decimal.NewFromFloat(1.4)
	hazardAreaFactor   = decimal.NewFromFloat(1.5)
	residentialFactor  = decimal.NewFromFloat(0.9)

	highRiskPlatformFactor = decimal.NewFromFloat(1.3)
	nightPlatformFactor    = decimal.NewFromFloat(1.4)

	peakHoursFactor  = decimal.NewFromFloat(1.2)
	nightHoursFactor = decimal.NewFromFloat(1.5)
	middayFactor     = decimal.NewFromFloat(0.9)
)

// Calculator computes risk-adjusted daily premiums. It is pure: every method
// is deterministic given its inputs, the clock is always passed in by the
// caller, and the risk configuration is fixed at construction.
type Calculator struct {
	thresholdTemp  float64
	maxWeatherMult decimal.Decimal
	highRiskZones  []string
	monsoonCities  []string
	highRiskPlats  map[string]struct{}
	nightPlats     map[string]struct{}
}

// Breakdown carries the four factors actually applied to a base premium.
type Breakdown struct {
	Weather   decimal.Decimal
	Location  decimal.Decimal
	Platform  decimal.Decimal
	TimeOfDay decimal.Decimal
}

func NewCalculator(cfg config.InsuranceConfig) *Calculator {
	c := &Calculator{
		thresholdTemp:  cfg.WeatherThresholdTemp,
		maxWeatherMult: decimal.NewFromFloat(cfg.WeatherMaxMultiplier),
		highRiskZones:  lowered(cfg.HighRiskZones),
		monsoonCities:  lowered(cfg.MonsoonCities),
		highRiskPlats:  upperSet(cfg.HighRiskGigPlatforms),
		nightPlats:     upperSet(cfg.NightTimeGigPlatforms),
	}
	return c
}

// DailyPremium composes the weather, location, platform and time-of-day
// factors onto a base premium, in that order, and rounds once at the end to
// two decimal places (half-up). The weather factor only participates when a
// temperature reading was supplied.
func (c *Calculator) DailyPremium(basePremium decimal.Decimal, temperature *float64, location, gigPlatform string, now time.Time) (decimal.Decimal, Breakdown) {
	breakdown := Breakdown{
		Weather:   one,
		Location:  c.LocationRiskMultiplier(location),
		Platform:  c.GigPlatformRiskMultiplier(gigPlatform, now),
		TimeOfDay: c.TimeOfDayMultiplier(now),
	}
	if temperature != nil {
		breakdown.Weather = c.WeatherRiskMultiplier(temperature, location, now)
	}

	final := basePremium.
		Mul(breakdown.Weather).
		Mul(breakdown.Location).
		Mul(breakdown.Platform).
		Mul(breakdown.TimeOfDay).
		Round(2)

	return final, breakdown
}

// WeatherRiskMultiplier builds the weather factor from the temperature and
// the monsoon calendar. The heat and cold adjustments are deliberately two
// independent blocks: a single temperature can only trip one of them under
// the default thresholds, and keeping them independent preserves behavior if
// the threshold is ever reconfigured below the cold cutoff.
func (c *Calculator) WeatherRiskMultiplier(temperature *float64, location string, now time.Time) decimal.Decimal {
	multiplier := one

	if temperature != nil {
		if *temperature > c.thresholdTemp {
			steps := int64(math.Floor((*temperature - c.thresholdTemp) / 5))
			multiplier = multiplier.Add(heatStepRisk.Mul(decimal.NewFromInt(steps)))
			if multiplier.GreaterThan(c.maxWeatherMult) {
				multiplier = c.maxWeatherMult
			}
		}

		if *temperature < 10 {
			multiplier = multiplier.Mul(coldMultiplier)
		}
	}

	if location != "" && isMonsoonSeason(now) && containsAny(strings.ToLower(location), c.monsoonCities) {
		multiplier = multiplier.Mul(monsoonMultiplier)
	}

	return multiplier
}

// LocationRiskMultiplier matches the location case-insensitively against the
// risk categories, first match wins: configured high-risk zones, then
// industrial/construction/highway areas, then residential discounts.
func (c *Calculator) LocationRiskMultiplier(location string) decimal.Decimal {
	if location == "" {
		return one
	}

	locationLower := strings.ToLower(location)

	if containsAny(locationLower, c.highRiskZones) {
		return highRiskZoneFactor
	}

	if strings.Contains(locationLower, "industrial") ||
		strings.Contains(locationLower, "construction") ||
		strings.Contains(locationLower, "highway") {
		return hazardAreaFactor
	}

	if strings.Contains(locationLower, "residential") ||
		strings.Contains(locationLower, "society") ||
		strings.Contains(locationLower, "colony") {
		return residentialFactor
	}

	return one
}

// GigPlatformRiskMultiplier applies the quick-commerce surcharge, or the
// night surcharge for night-delivery platforms between 20:00 and 06:00.
func (c *Calculator) GigPlatformRiskMultiplier(gigPlatform string, now time.Time) decimal.Decimal {
	if gigPlatform == "" {
		return one
	}

	platform := strings.ToUpper(gigPlatform)

	if _, ok := c.highRiskPlats[platform]; ok {
		return highRiskPlatformFactor
	}

	if _, ok := c.nightPlats[platform]; ok {
		m := minuteOfDay(now)
		if m >= 20*60 || m < 6*60 {
			return nightPlatformFactor
		}
	}

	return one
}

// TimeOfDayMultiplier prices the riskiness of the current hour: evening peak
// [17:00,21:00), late night [22:00,05:00), midday lull [11:00,15:00).
func (c *Calculator) TimeOfDayMultiplier(now time.Time) decimal.Decimal {
	m := minuteOfDay(now)

	if m >= 17*60 && m < 21*60 {
		return peakHoursFactor
	}
	if m >= 22*60 || m < 5*60 {
		return nightHoursFactor
	}
	if m >= 11*60 && m < 15*60 {
		return middayFactor
	}
	return one
}

// MonthlyPremium is the 30-day subscription price with a 10% discount.
func (c *Calculator) MonthlyPremium(dailyPremium decimal.Decimal) decimal.Decimal {
	return dailyPremium.
		Mul(decimal.NewFromInt(30)).
		Mul(decimal.NewFromFloat(0.9)).
		Round(2)
}

// AnnualPremium is the 365-day subscription price with a 20% discount.
func (c *Calculator) AnnualPremium(dailyPremium decimal.Decimal) decimal.Decimal {
	return dailyPremium.
		Mul(decimal.NewFromInt(365)).
		Mul(decimal.NewFromFloat(0.8)).
		Round(2)
}

// NoClaimBonusMultiplier returns 1 minus the no-claim discount: 5% per
// claim-free year, capped at 25%.
func (c *Calculator) NoClaimBonusMultiplier(noClaimYears int) decimal.Decimal {
	if noClaimYears <= 0 {
		return one
	}

	discount := decimal.NewFromInt(int64(noClaimYears)).Mul(decimal.NewFromFloat(0.05))
	cap := decimal.NewFromFloat(0.25)
	if discount.GreaterThan(cap) {
		discount = cap
	}
	return one.Sub(discount)
}

// RefundAmount quotes the refund for early deactivation based on hours of
// cover actually consumed: 50% under 4 hours, 25% up to 8, nothing after.
// The toggle path itself never refunds; this feeds the quote surface only.
func (c *Calculator) RefundAmount(premiumPaid decimal.Decimal, startTime, endTime *time.Time) decimal.Decimal {
	if startTime == nil || endTime == nil {
		return decimal.Zero
	}

	hoursCovered := int64(endTime.Sub(*startTime).Minutes()) / 60

	if hoursCovered < 4 {
		return premiumPaid.Mul(decimal.NewFromFloat(0.5)).Round(2)
	}
	if hoursCovered <= 8 {
		return premiumPaid.Mul(decimal.NewFromFloat(0.25)).Round(2)
	}
	return decimal.Zero
}

// June through September.
func isMonsoonSeason(now time.Time) bool {
	month := int(now.Month())
	return month >= 6 && month <= 9
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func upperSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[strings.ToUpper(v)] = struct{}{}
	}
	return out
}
