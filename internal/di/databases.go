package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/homestead/internal/config"
	"github.com/aristath/homestead/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens every database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// scenarios.db - named assumption sets
	scenariosDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "scenarios.db"),
		Profile: database.ProfileStandard,
		Name:    "scenarios",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scenarios database: %w", err)
	}
	container.ScenariosDB = scenariosDB

	if err := scenariosDB.Migrate(); err != nil {
		scenariosDB.Close()
		return nil, fmt.Errorf("failed to migrate scenarios database: %w", err)
	}

	log.Info().Str("path", scenariosDB.Path()).Msg("Databases initialized")
	return container, nil
}
