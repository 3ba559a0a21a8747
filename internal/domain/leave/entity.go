package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccrualType string

const (
	AccrualMonthly AccrualType = "monthly"
	AccrualYearly  AccrualType = "yearly"
	AccrualPerTerm AccrualType = "per_term"
)

type LeaveType struct {
	ID            string
	CompanyID     string
	Name          string
	AccrualType   AccrualType
	AccrualAmount decimal.Decimal
	// CarryForwardCap limits how much unused balance moves into the next
	// period. Nil means uncapped.
	CarryForwardCap *decimal.Decimal
	// RoundingIncrement is applied to the accrued total before the
	// carry-forward subtraction, e.g. 0.5 rounds to half days.
	RoundingIncrement decimal.Decimal
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LeaveBalance tracks one employee's balance for one leave type in one
// period year. Only the accrual and carry-forward flows mutate it.
type LeaveBalance struct {
	ID             string
	CompanyID      string
	EmployeeID     string
	LeaveTypeID    string
	PeriodYear     int
	OpeningBalance decimal.Decimal
	Accrued        decimal.Decimal
	Taken          decimal.Decimal
	Pending        decimal.Decimal
	CarriedForward decimal.Decimal
	// LastAccruedPeriod is the period key of the most recent accrual, e.g.
	// "2026-08" for monthly or "2026" for yearly. Backs the
	// double-application check.
	LastAccruedPeriod *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Available returns the balance usable right now.
func (b *LeaveBalance) Available() decimal.Decimal {
	return b.OpeningBalance.Add(b.Accrued).Sub(b.Taken).Sub(b.Pending)
}

// PeriodKey derives the accrual period key for a date.
func PeriodKey(accrualType AccrualType, asOf time.Time) string {
	switch accrualType {
	case AccrualMonthly:
		return asOf.Format("2006-01")
	case AccrualPerTerm:
		term := 1
		if asOf.Month() > 6 {
			term = 2
		}
		if term == 2 {
			return asOf.Format("2006") + "-T2"
		}
		return asOf.Format("2006") + "-T1"
	default:
		return asOf.Format("2006")
	}
}

// RoundToIncrement rounds v to the nearest multiple of increment. A zero
// or negative increment leaves v unchanged.
func RoundToIncrement(v decimal.Decimal, increment decimal.Decimal) decimal.Decimal {
	if increment.LessThanOrEqual(decimal.Zero) {
		return v
	}
	return v.Div(increment).Round(0).Mul(increment)
}
