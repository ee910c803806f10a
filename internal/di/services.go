package di

import (
	"fmt"

	"github.com/aristath/homestead/internal/config"
	"github.com/aristath/homestead/internal/modules/charts"
	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/aristath/homestead/internal/modules/scenarios"
	"github.com/rs/zerolog"
)

// InitializeServices creates all services. Repositories must exist.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container.ScenarioRepo == nil {
		return fmt.Errorf("scenario repository not initialized")
	}

	container.HousingFactory = housing.NewFactory(cfg.HousingSolverConfig(), cfg.PrincipalPolicy(), log)
	container.ChartService = charts.NewService(log)
	container.ScenarioService = scenarios.NewService(container.ScenarioRepo, container.HousingFactory, log)

	solver := container.HousingFactory.SolverConfig()
	log.Info().
		Str("solver_method", string(solver.Method)).
		Float64("initial_guess", solver.InitialGuess).
		Int("max_iterations", solver.MaxIterations).
		Float64("tolerance", solver.Tolerance).
		Str("principal_policy", string(container.HousingFactory.PrincipalPolicy())).
		Msg("Housing model configured")

	return nil
}
