package housing

import (
	"fmt"
	"math"

	"github.com/aristath/homestead/pkg/formulas"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/optimize"
)

// SolverMethod selects how the level loan payment is found.
type SolverMethod string

const (
	// SolverNelderMead minimizes the amortization residual numerically.
	SolverNelderMead SolverMethod = "nelder-mead"
	// SolverClosedForm uses the standard annuity formula.
	SolverClosedForm SolverMethod = "closed-form"
)

// ParseSolverMethod converts a configured method name. Empty means Nelder-Mead.
func ParseSolverMethod(name string) (SolverMethod, error) {
	switch SolverMethod(name) {
	case "", SolverNelderMead:
		return SolverNelderMead, nil
	case SolverClosedForm:
		return SolverClosedForm, nil
	default:
		return "", fmt.Errorf("unknown solver method %q (must be %s or %s)",
			name, SolverNelderMead, SolverClosedForm)
	}
}

// SolverConfig tunes the payment solver.
type SolverConfig struct {
	Method        SolverMethod
	InitialGuess  float64 // seed payment for the first minimization
	MaxIterations int     // major iteration cap per minimization
	Tolerance     float64 // accepted |residual| as a fraction of the loan
	SimplexSize   float64 // initial simplex edge, 0 = gonum default
}

// DefaultSolverConfig seeds Nelder-Mead at $1,600/month.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Method:        SolverNelderMead,
		InitialGuess:  1600,
		MaxIterations: 5000,
		Tolerance:     1e-6,
	}
}

// SolvedPayment is a level loan payment plus the solver's diagnostics.
type SolvedPayment struct {
	Amount      float64      `json:"amount"`
	Method      SolverMethod `json:"method"`
	Status      string       `json:"status"`
	Iterations  int          `json:"iterations"`
	Evaluations int          `json:"evaluations"`
	Residual    float64      `json:"residual"`
	Retried     bool         `json:"retried"`
}

// PaymentSolver finds the level payment that fully amortizes a loan.
type PaymentSolver struct {
	cfg SolverConfig
	log zerolog.Logger
}

// NewPaymentSolver creates a solver. Zero fields of cfg take their defaults.
func NewPaymentSolver(cfg SolverConfig, log zerolog.Logger) *PaymentSolver {
	def := DefaultSolverConfig()
	if cfg.Method == "" {
		cfg.Method = def.Method
	}
	if cfg.InitialGuess == 0 {
		cfg.InitialGuess = def.InitialGuess
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}

	return &PaymentSolver{
		cfg: cfg,
		log: log.With().Str("component", "payment_solver").Logger(),
	}
}

// Config returns the effective solver configuration.
func (s *PaymentSolver) Config() SolverConfig {
	return s.cfg
}

// Solve returns the payment X minimizing |X*months - (loan + Σinterest(X))|.
//
// Nelder-Mead results are accepted on Success, FunctionConvergence or
// MethodConverge. Any other status triggers one retry seeded from the annuity
// payment. The final payment must be finite with a residual inside
// Tolerance × max(1, loan), otherwise a *ConvergenceError is returned.
func (s *PaymentSolver) Solve(loan, rate float64, months int) (SolvedPayment, error) {
	if months < 1 {
		return SolvedPayment{}, invalid("years", "mortgage term must cover at least one month")
	}

	if s.cfg.Method == SolverClosedForm {
		amount, err := formulas.AnnuityPayment(loan, rate, months)
		if err != nil {
			return SolvedPayment{}, err
		}
		solved := SolvedPayment{
			Amount:   amount,
			Method:   SolverClosedForm,
			Status:   optimize.Success.String(),
			Residual: residual(loan, rate, months, amount),
		}
		return solved, s.check(solved, loan)
	}

	objective := func(x []float64) float64 {
		return math.Abs(residual(loan, rate, months, x[0]))
	}

	result, err := s.minimize(objective, s.cfg.InitialGuess)
	retried := false
	if err != nil || !accepted(result.Status) {
		seed, annuityErr := formulas.AnnuityPayment(loan, rate, months)
		if annuityErr != nil {
			return SolvedPayment{}, annuityErr
		}
		event := s.log.Warn().Float64("seed", seed)
		if err != nil {
			event = event.Err(err)
		} else {
			event = event.Str("status", result.Status.String())
		}
		event.Msg("Payment minimization did not converge, retrying from annuity payment")

		result, err = s.minimize(objective, seed)
		if err != nil {
			return SolvedPayment{}, &ConvergenceError{
				Status: "error",
				Reason: fmt.Sprintf("minimization failed: %v", err),
			}
		}
		retried = true
	}

	solved := SolvedPayment{
		Amount:      result.X[0],
		Method:      SolverNelderMead,
		Status:      result.Status.String(),
		Iterations:  result.MajorIterations,
		Evaluations: result.FuncEvaluations,
		Residual:    residual(loan, rate, months, result.X[0]),
		Retried:     retried,
	}

	s.log.Debug().
		Float64("payment", solved.Amount).
		Str("status", solved.Status).
		Int("iterations", solved.Iterations).
		Float64("residual", solved.Residual).
		Msg("Solved loan payment")

	if !accepted(result.Status) {
		return solved, &ConvergenceError{
			Status:     solved.Status,
			Iterations: solved.Iterations,
			Payment:    solved.Amount,
			Residual:   solved.Residual,
			Reason:     "minimization did not converge",
		}
	}
	return solved, s.check(solved, loan)
}

func (s *PaymentSolver) minimize(objective func([]float64) float64, seed float64) (*optimize.Result, error) {
	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{MajorIterations: s.cfg.MaxIterations}
	method := &optimize.NelderMead{SimplexSize: s.cfg.SimplexSize}
	return optimize.Minimize(problem, []float64{seed}, settings, method)
}

func (s *PaymentSolver) check(solved SolvedPayment, loan float64) error {
	if math.IsNaN(solved.Amount) || math.IsInf(solved.Amount, 0) {
		return &ConvergenceError{
			Status:     solved.Status,
			Iterations: solved.Iterations,
			Payment:    solved.Amount,
			Residual:   solved.Residual,
			Reason:     "payment is not finite",
		}
	}
	if math.Abs(solved.Residual) > s.cfg.Tolerance*math.Max(1, loan) {
		return &ConvergenceError{
			Status:     solved.Status,
			Iterations: solved.Iterations,
			Payment:    solved.Amount,
			Residual:   solved.Residual,
			Reason:     "residual above tolerance",
		}
	}
	return nil
}

func accepted(status optimize.Status) bool {
	switch status {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge:
		return true
	}
	return false
}

// residual evaluates the schedule recurrence without a principal floor.
func residual(loan, rate float64, months int, payment float64) float64 {
	return Amortize(loan, rate, months, payment, PrincipalPolicyPermissive).Residual()
}
