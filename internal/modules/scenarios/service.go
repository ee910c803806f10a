package scenarios

import (
	"fmt"
	"strings"

	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/rs/zerolog"
)

// Service manages scenarios and runs the housing model on them
type Service struct {
	repo    RepositoryInterface
	factory *housing.Factory
	log     zerolog.Logger
}

// NewService creates a new scenario service
func NewService(repo RepositoryInterface, factory *housing.Factory, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		factory: factory,
		log:     log.With().Str("service", "scenarios").Logger(),
	}
}

// Create validates input and stores it as a new scenario
func (s *Service) Create(input ScenarioInput) (*Scenario, error) {
	name, a, err := parseInput(input)
	if err != nil {
		return nil, err
	}

	scenario, err := s.repo.Create(name, a)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("id", scenario.ID).Str("name", name).Msg("Scenario created")
	return scenario, nil
}

// Get returns a scenario by ID
func (s *Service) Get(id string) (*Scenario, error) {
	return s.repo.GetByID(id)
}

// List returns every scenario
func (s *Service) List() ([]Scenario, error) {
	return s.repo.List()
}

// Update validates input and replaces the stored scenario
func (s *Service) Update(id string, input ScenarioInput) (*Scenario, error) {
	name, a, err := parseInput(input)
	if err != nil {
		return nil, err
	}

	scenario, err := s.repo.Update(id, name, a)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("id", id).Str("name", name).Msg("Scenario updated")
	return scenario, nil
}

// Delete removes a scenario
func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("Scenario deleted")
	return nil
}

// Evaluate runs the model on a stored scenario
func (s *Service) Evaluate(id string) (*Evaluation, error) {
	scenario, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	ev, err := s.factory.Evaluate(scenario.Assumptions)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate scenario %s: %w", id, err)
	}

	return &Evaluation{Scenario: scenario, Evaluation: ev}, nil
}

// Sensitivity sweeps attr over [lower, upper] for a stored scenario. The
// stored assumptions are not changed.
func (s *Service) Sensitivity(id, attr string, lower, upper float64) (*housing.SensitivityResult, error) {
	scenario, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.factory.Sensitivity(scenario.Assumptions, attr, lower, upper)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep scenario %s: %w", id, err)
	}
	return res, nil
}

func parseInput(input ScenarioInput) (string, housing.Assumptions, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", housing.Assumptions{}, ErrInvalidName
	}

	a, err := housing.FromMap(input.Assumptions)
	if err != nil {
		return "", housing.Assumptions{}, err
	}
	return name, a, nil
}
