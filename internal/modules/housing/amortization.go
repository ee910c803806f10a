package housing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// PrincipalPolicy controls what happens when a level payment repays the loan
// before the end of the term.
type PrincipalPolicy string

const (
	// PrincipalPolicyPermissive lets the outstanding balance run negative,
	// so overpayment keeps "earning" interest at the loan rate.
	PrincipalPolicyPermissive PrincipalPolicy = "permissive"
	// PrincipalPolicyFloored stops the balance at zero; no interest accrues
	// on a repaid loan.
	PrincipalPolicyFloored PrincipalPolicy = "floored"
)

// ParsePrincipalPolicy converts a configured policy name. Empty means permissive.
func ParsePrincipalPolicy(name string) (PrincipalPolicy, error) {
	switch PrincipalPolicy(name) {
	case "", PrincipalPolicyPermissive:
		return PrincipalPolicyPermissive, nil
	case PrincipalPolicyFloored:
		return PrincipalPolicyFloored, nil
	default:
		return "", fmt.Errorf("unknown principal policy %q (must be %s or %s)",
			name, PrincipalPolicyPermissive, PrincipalPolicyFloored)
	}
}

// Schedule is a month-by-month amortization under a level payment.
// Index 0 is the origination month: Principal[0] is the loan amount and
// Interest[0] is zero.
type Schedule struct {
	Payment   float64   `json:"payment"`
	Rate      float64   `json:"rate"`
	Interest  []float64 `json:"interest"`
	Principal []float64 `json:"principal"`
}

// Amortize runs the schedule recurrence for months periods:
//
//	interest[m]  = principal[m-1] * rate
//	principal[m] = principal[m-1] - (payment - interest[m])
func Amortize(loan, rate float64, months int, payment float64, policy PrincipalPolicy) Schedule {
	interest := make([]float64, months+1)
	principal := make([]float64, months+1)
	principal[0] = loan

	for m := 1; m <= months; m++ {
		interest[m] = principal[m-1] * rate
		principal[m] = principal[m-1] - (payment - interest[m])
		if policy == PrincipalPolicyFloored && principal[m] < 0 {
			principal[m] = 0
		}
	}

	return Schedule{
		Payment:   payment,
		Rate:      rate,
		Interest:  interest,
		Principal: principal,
	}
}

// Months is the number of payment periods in the schedule.
func (s Schedule) Months() int {
	return len(s.Principal) - 1
}

// TotalInterest sums interest over every period.
func (s Schedule) TotalInterest() float64 {
	return floats.Sum(s.Interest)
}

// Residual is total level payments minus loan plus total interest. It is zero
// exactly when the payment amortizes the loan over the term.
func (s Schedule) Residual() float64 {
	if len(s.Principal) == 0 {
		return 0
	}
	return s.Payment*float64(s.Months()) - (s.Principal[0] + s.TotalInterest())
}

// Outstanding returns the balance after month payments.
func (s Schedule) Outstanding(month int) (float64, error) {
	if month < 0 || month >= len(s.Principal) {
		return 0, fmt.Errorf("month %d outside schedule of %d months", month, s.Months())
	}
	return s.Principal[month], nil
}

// ScheduleRow is one printable line of a schedule, rounded to cents.
type ScheduleRow struct {
	Month         int             `json:"month"`
	Payment       decimal.Decimal `json:"payment"`
	Interest      decimal.Decimal `json:"interest"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// Rows renders months 1..limit of the schedule in cents. A limit outside
// the schedule renders every month.
func (s Schedule) Rows(limit int) []ScheduleRow {
	months := s.Months()
	if limit <= 0 || limit > months {
		limit = months
	}

	payment := decimal.NewFromFloat(s.Payment).Round(2)
	rows := make([]ScheduleRow, 0, limit)
	for m := 1; m <= limit; m++ {
		rows = append(rows, ScheduleRow{
			Month:         m,
			Payment:       payment,
			Interest:      decimal.NewFromFloat(s.Interest[m]).Round(2),
			PrincipalPaid: decimal.NewFromFloat(s.Principal[m-1] - s.Principal[m]).Round(2),
			Outstanding:   decimal.NewFromFloat(s.Principal[m]).Round(2),
		})
	}
	return rows
}
