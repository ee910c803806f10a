// Package di provides dependency injection type definitions.
//
// The Container holds every application dependency. It is the single source
// of truth for service instances and is passed to the server for routing.
package di

import (
	"github.com/aristath/homestead/internal/database"
	"github.com/aristath/homestead/internal/modules/charts"
	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/aristath/homestead/internal/modules/scenarios"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	ScenariosDB *database.DB // scenarios.db - saved assumption sets

	// Repositories
	ScenarioRepo *scenarios.Repository

	// Services
	HousingFactory  *housing.Factory
	ChartService    *charts.Service
	ScenarioService *scenarios.Service
}

// Close releases every database held by the container
func (c *Container) Close() error {
	if c == nil || c.ScenariosDB == nil {
		return nil
	}
	return c.ScenariosDB.Close()
}
