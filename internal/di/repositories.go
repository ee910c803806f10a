package di

import (
	"github.com/aristath/homestead/internal/modules/scenarios"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	container.ScenarioRepo = scenarios.NewRepository(container.ScenariosDB.Conn(), log)
	return nil
}
