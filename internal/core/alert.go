package core

import "github.com/shopspring/decimal"

// AlertLevel classifies spending relative to income.
type AlertLevel string

const (
	AlertHealthy      AlertLevel = "healthy"
	AlertNearLimit    AlertLevel = "near_limit"
	AlertOverspending AlertLevel = "overspending"
)

// nearLimitRatio is the share of income above which spending is flagged.
var nearLimitRatio = decimal.New(9, -1)

// Alert is the evaluator output. Overshoot is only set for AlertOverspending.
type Alert struct {
	Level     AlertLevel
	Overshoot Money
}

// EvaluateAlert classifies totals: expenses above income is overspending,
// expenses above 90% of income is near the limit, anything else is healthy.
func EvaluateAlert(t Totals) Alert {
	switch {
	case t.TotalExpenses.Cmp(t.TotalIncome) > 0:
		return Alert{Level: AlertOverspending, Overshoot: t.TotalExpenses.Sub(t.TotalIncome)}
	case t.TotalExpenses.Amount.GreaterThan(t.TotalIncome.Amount.Mul(nearLimitRatio)):
		return Alert{Level: AlertNearLimit}
	default:
		return Alert{Level: AlertHealthy}
	}
}

func (l AlertLevel) String() string { return string(l) }
