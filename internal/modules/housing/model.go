package housing

import (
	"fmt"
	"math"

	"github.com/aristath/homestead/pkg/formulas"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// SaleRetention is the share of the terminal price kept after a 6%
// transaction cost on sale.
const SaleRetention = 0.94

// Branch identifies how monthly cash flows enter the MIRR.
type Branch string

const (
	// BranchReinvest: the property is cash-flow positive and each month's
	// surplus compounds at the stock return until the horizon.
	BranchReinvest Branch = "reinvest"
	// BranchFinance: the property needs a monthly top-up, discounted at the
	// financing cost and added to the invested capital.
	BranchFinance Branch = "finance"
)

// Evaluation is everything computed for one MIRR.
type Evaluation struct {
	TerminalValue  float64 // house price compounded at appreciation over the horizon
	SaleProceeds   float64 // after transaction cost and loan payoff
	LoanPayment    float64 // level principal + interest payment
	CarryingCost   float64 // horizon-average non-loan monthly cost net of rent
	MonthlyPayment float64 // LoanPayment + CarryingCost, negative means net income
	TaxBenefit     float64 // interest deductions reinvested to the horizon
	CashFlowValue  float64 // reinvested surplus, or discounted top-ups (negative)
	Capital        float64 // MIRR denominator
	Branch         Branch
	MIRR           float64

	Solver      SolvedPayment
	Schedule    Schedule  // full mortgage term
	Compounding []float64 // stock-return factors over the horizon
	Discount    []float64 // financing-cost factors over the horizon
}

// Model evaluates one set of assumptions. It holds no derived state, so a
// Model may be shared between goroutines.
type Model struct {
	assumptions Assumptions
	solver      *PaymentSolver
	policy      PrincipalPolicy
	log         zerolog.Logger
}

// Option customises a Model.
type Option func(*Model)

// WithSolver sets the payment solver.
func WithSolver(s *PaymentSolver) Option {
	return func(m *Model) { m.solver = s }
}

// WithPrincipalPolicy sets how overpaid principal is reported.
func WithPrincipalPolicy(p PrincipalPolicy) Option {
	return func(m *Model) { m.policy = p }
}

// WithLogger sets the model logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// NewModel validates a and returns a model for it.
func NewModel(a Assumptions, opts ...Option) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		policy: PrincipalPolicyPermissive,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.solver == nil {
		m.solver = NewPaymentSolver(DefaultSolverConfig(), m.log)
	}
	m.assumptions = a
	return m, nil
}

// derive builds a model for other assumptions sharing m's solver and policy.
func (m *Model) derive(a Assumptions) (*Model, error) {
	return NewModel(a, WithSolver(m.solver), WithPrincipalPolicy(m.policy), WithLogger(m.log))
}

// Assumptions returns a copy of the model inputs.
func (m *Model) Assumptions() Assumptions {
	return m.assumptions
}

// InflationMultiplier is the average compounding factor of annual inflation
// over the horizon, applied to ongoing costs.
func (m *Model) InflationMultiplier() float64 {
	return m.averageGrowth(m.assumptions.Inflation)
}

// AppreciationMultiplier is the average compounding factor of annual house
// appreciation over the horizon, applied to rent.
func (m *Model) AppreciationMultiplier() float64 {
	return m.averageGrowth(m.assumptions.Appreciation)
}

func (m *Model) averageGrowth(annual float64) float64 {
	// NewModel guarantees at least one investing month. The average is taken
	// over the fractional horizon, not the truncated month count.
	avg, _ := formulas.AverageCompounding(formulas.EffectiveMonthlyRate(annual), m.assumptions.InvestingYears*12)
	return avg
}

// CarryingCost is the horizon-average monthly cost of owning the property:
// inflated property tax, HOA, insurance and repairs minus appreciated rent.
func (m *Model) CarryingCost() float64 {
	a := m.assumptions
	expenses := a.PropertyTax*a.HousePrice + a.HOA + a.Insurance*a.HousePrice + a.Repairs*a.HousePrice
	rent := a.TenantIncome * a.HousePrice
	return m.InflationMultiplier()*expenses - m.AppreciationMultiplier()*rent
}

// LoanAmount is the financed part of the price.
func (m *Model) LoanAmount() float64 {
	return m.assumptions.HousePrice * (1 - m.assumptions.DownPayment)
}

// TerminalValue is the house price after appreciating for the horizon.
func (m *Model) TerminalValue() float64 {
	a := m.assumptions
	return a.HousePrice * math.Pow(1+a.Appreciation, a.InvestingYears)
}

// TaxBenefit is the mortgage-interest deduction of the first investing
// months, each saving reinvested at the stock return until the horizon.
func (m *Model) TaxBenefit(schedule Schedule) (float64, error) {
	months := m.assumptions.InvestingMonths()
	if months > len(schedule.Interest) {
		return 0, m.horizonError(schedule)
	}
	compounding, err := formulas.CompoundingSeries(m.assumptions.StockReturn, months)
	if err != nil {
		return 0, err
	}
	return m.taxBenefit(schedule, compounding), nil
}

func (m *Model) taxBenefit(schedule Schedule, compounding []float64) float64 {
	savings := make([]float64, len(compounding))
	copy(savings, schedule.Interest[:len(compounding)])
	floats.Scale(m.assumptions.IncomeTax, savings)
	return floats.Dot(savings, compounding)
}

func (m *Model) horizonError(schedule Schedule) error {
	return invalid("investing_years", "horizon of %d months exceeds the %d month mortgage schedule",
		m.assumptions.InvestingMonths(), schedule.Months())
}

// Solve finds the level loan payment and its full-term schedule.
func (m *Model) Solve() (SolvedPayment, Schedule, error) {
	a := m.assumptions
	loan := m.LoanAmount()

	solved, err := m.solver.Solve(loan, a.APR, a.Months())
	if err != nil {
		return solved, Schedule{}, fmt.Errorf("failed to solve loan payment: %w", err)
	}
	return solved, Amortize(loan, a.APR, a.Months(), solved.Amount, m.policy), nil
}

// MonthlyPayment is the all-in monthly outflow: loan payment plus carrying
// cost. Negative means the property pays the owner each month.
func (m *Model) MonthlyPayment() (float64, error) {
	solved, _, err := m.Solve()
	if err != nil {
		return 0, err
	}
	return solved.Amount + m.CarryingCost(), nil
}

// Evaluate computes the MIRR and everything that goes into it.
//
// A surplus month (negative monthly payment) is reinvested at the stock
// return:
//
//	MIRR = ((sale + tax + surplus×Σcompounding) / equity)^(1/years) - 1
//
// A deficit month is financed, its discounted value joining the equity:
//
//	MIRR = ((sale + tax) / (equity + payment×Σdiscount))^(1/years) - 1
func (m *Model) Evaluate() (*Evaluation, error) {
	a := m.assumptions
	horizon := a.InvestingMonths()
	if horizon > a.Months() {
		return nil, invalid("investing_years", "horizon of %d months exceeds the %d month mortgage term",
			horizon, a.Months())
	}

	compounding, err := formulas.CompoundingSeries(a.StockReturn, horizon)
	if err != nil {
		return nil, err
	}
	discount, err := formulas.DiscountSeries(a.FinancingCost, horizon)
	if err != nil {
		return nil, err
	}

	solved, schedule, err := m.Solve()
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{
		TerminalValue: m.TerminalValue(),
		LoanPayment:   solved.Amount,
		CarryingCost:  m.CarryingCost(),
		Solver:        solved,
		Schedule:      schedule,
		Compounding:   compounding,
		Discount:      discount,
	}
	ev.MonthlyPayment = ev.LoanPayment + ev.CarryingCost
	ev.SaleProceeds = (ev.TerminalValue*SaleRetention - schedule.Principal[horizon]) * compounding[horizon-1]
	ev.TaxBenefit = m.taxBenefit(schedule, compounding)

	equity := a.HousePrice * a.DownPayment
	var gain float64
	if ev.MonthlyPayment < 0 {
		ev.Branch = BranchReinvest
		ev.CashFlowValue = -ev.MonthlyPayment * floats.Sum(compounding)
		ev.Capital = equity
		gain = ev.SaleProceeds + ev.TaxBenefit + ev.CashFlowValue
	} else {
		ev.Branch = BranchFinance
		ev.CashFlowValue = -ev.MonthlyPayment * floats.Sum(discount)
		ev.Capital = equity - ev.CashFlowValue
		gain = ev.SaleProceeds + ev.TaxBenefit
	}

	multiple := gain / ev.Capital
	if multiple < 0 || math.IsNaN(multiple) || math.IsInf(multiple, 0) {
		return nil, fmt.Errorf("%w: terminal wealth multiple %g has no annualized rate", ErrNumericDomain, multiple)
	}
	ev.MIRR = formulas.Annualize(multiple, a.InvestingYears)

	m.log.Debug().
		Str("branch", string(ev.Branch)).
		Float64("monthly_payment", ev.MonthlyPayment).
		Float64("mirr", ev.MIRR).
		Msg("Evaluated investment")

	return ev, nil
}

// MIRR returns the modified internal rate of return of the investment.
func (m *Model) MIRR() (float64, error) {
	ev, err := m.Evaluate()
	if err != nil {
		return 0, err
	}
	return ev.MIRR, nil
}
