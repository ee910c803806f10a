package housing

import "github.com/rs/zerolog"

// Factory builds models that share one payment solver, principal policy and
// logger. It is the entry point used by the HTTP handlers, the scenario
// service and the CLI.
type Factory struct {
	solver *PaymentSolver
	policy PrincipalPolicy
	log    zerolog.Logger
}

// NewFactory creates a model factory.
func NewFactory(cfg SolverConfig, policy PrincipalPolicy, log zerolog.Logger) *Factory {
	if policy == "" {
		policy = PrincipalPolicyPermissive
	}
	return &Factory{
		solver: NewPaymentSolver(cfg, log),
		policy: policy,
		log:    log.With().Str("service", "housing").Logger(),
	}
}

// NewModel validates a and returns a model for it.
func (f *Factory) NewModel(a Assumptions) (*Model, error) {
	return NewModel(a, WithSolver(f.solver), WithPrincipalPolicy(f.policy), WithLogger(f.log))
}

// Evaluate is shorthand for NewModel followed by Model.Evaluate.
func (f *Factory) Evaluate(a Assumptions) (*Evaluation, error) {
	m, err := f.NewModel(a)
	if err != nil {
		return nil, err
	}
	return m.Evaluate()
}

// Sensitivity is shorthand for NewModel followed by Model.Sensitivity.
func (f *Factory) Sensitivity(a Assumptions, attr string, lower, upper float64) (*SensitivityResult, error) {
	m, err := f.NewModel(a)
	if err != nil {
		return nil, err
	}
	return m.Sensitivity(attr, lower, upper)
}

// SolverConfig returns the effective solver configuration.
func (f *Factory) SolverConfig() SolverConfig {
	return f.solver.Config()
}

// PrincipalPolicy returns the schedule policy applied to every model.
func (f *Factory) PrincipalPolicy() PrincipalPolicy {
	return f.policy
}
