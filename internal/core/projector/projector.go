// Package projector derives display state from a balance and a target.
// Everything here is a pure function: no hidden state, safe to call from
// any goroutine, and calling twice with the same inputs yields the same
// result.
package projector

import "github.com/shopspring/decimal"

// StatusLabel is the qualitative classification of a balance against its target.
type StatusLabel string

const (
	StatusGood     StatusLabel = "Good"
	StatusWarning  StatusLabel = "Warning"
	StatusCritical StatusLabel = "Critical"
)

// Status pairs a label with a numeric severity for callers that sort or
// compare classifications.
type Status struct {
	Label    StatusLabel `json:"label"`
	Severity int         `json:"severity"` // 0 = Good, 1 = Warning, 2 = Critical
}

// Thresholds define the percentage tiers for classification.
type Thresholds struct {
	WarningPct  int64 // strictly above this -> Warning
	CriticalPct int64 // strictly above this -> Critical
}

// DefaultThresholds mirror the product defaults: > 90% Critical, > 75% Warning.
var DefaultThresholds = Thresholds{WarningPct: 75, CriticalPct: 90}

var hundred = decimal.NewFromInt(100)

// Progress returns amountSaved as a rounded percentage of targetAmount,
// capped at 100. A non-positive target yields 0.
func Progress(amountSaved, targetAmount decimal.Decimal) int64 {
	pct := percent(amountSaved, targetAmount)
	if pct.GreaterThan(hundred) {
		return 100
	}
	return pct.Round(0).IntPart()
}

// Classify maps a balance and target to a tiered status. The uncapped
// percentage is used so an over-consumed budget still classifies correctly.
func Classify(amountSaved, targetAmount decimal.Decimal, t Thresholds) Status {
	pct := percent(amountSaved, targetAmount)
	switch {
	case pct.GreaterThan(decimal.NewFromInt(t.CriticalPct)):
		return Status{Label: StatusCritical, Severity: 2}
	case pct.GreaterThan(decimal.NewFromInt(t.WarningPct)):
		return Status{Label: StatusWarning, Severity: 1}
	default:
		return Status{Label: StatusGood, Severity: 0}
	}
}

func percent(amount, target decimal.Decimal) decimal.Decimal {
	if target.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.Div(target).Mul(hundred)
}
