// Package scenarios stores named housing assumption sets and evaluates them.
package scenarios

import (
	"errors"
	"time"

	"github.com/aristath/homestead/internal/modules/housing"
)

// ErrScenarioNotFound is returned when no scenario has the requested ID.
var ErrScenarioNotFound = errors.New("scenario not found")

// ErrInvalidName is returned for an empty scenario name.
var ErrInvalidName = errors.New("scenario name is required")

// Scenario is a named, persisted set of model assumptions.
type Scenario struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Assumptions housing.Assumptions `json:"assumptions"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ScenarioInput is the mutable part of a scenario, as accepted on create and
// update. Assumptions use the flat name→value form so unknown or missing keys
// are rejected.
type ScenarioInput struct {
	Name        string             `json:"name"`
	Assumptions map[string]float64 `json:"assumptions"`
}

// Evaluation is a scenario together with its model result.
type Evaluation struct {
	Scenario   *Scenario
	Evaluation *housing.Evaluation
}
