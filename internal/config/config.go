// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the scenario database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool
	Solver   SolverConfig
}

// SolverConfig holds payment solver and schedule settings
type SolverConfig struct {
	Method          string
	InitialGuess    float64
	MaxIterations   int
	Tolerance       float64
	SimplexSize     float64
	PrincipalPolicy string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("HOMESTEAD_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	defaults := housing.DefaultSolverConfig()
	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8080),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Solver: SolverConfig{
			Method:          getEnv("SOLVER_METHOD", string(defaults.Method)),
			InitialGuess:    getEnvAsFloat("SOLVER_INITIAL_GUESS", defaults.InitialGuess),
			MaxIterations:   getEnvAsInt("SOLVER_MAX_ITERATIONS", defaults.MaxIterations),
			Tolerance:       getEnvAsFloat("SOLVER_TOLERANCE", defaults.Tolerance),
			SimplexSize:     getEnvAsFloat("SOLVER_SIMPLEX_SIZE", defaults.SimplexSize),
			PrincipalPolicy: getEnv("PRINCIPAL_POLICY", string(housing.PrincipalPolicyPermissive)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if _, err := housing.ParseSolverMethod(c.Solver.Method); err != nil {
		return fmt.Errorf("invalid SOLVER_METHOD: %w", err)
	}
	if _, err := housing.ParsePrincipalPolicy(c.Solver.PrincipalPolicy); err != nil {
		return fmt.Errorf("invalid PRINCIPAL_POLICY: %w", err)
	}
	if c.Solver.MaxIterations < 0 {
		return fmt.Errorf("invalid SOLVER_MAX_ITERATIONS %d", c.Solver.MaxIterations)
	}
	if c.Solver.Tolerance < 0 {
		return fmt.Errorf("invalid SOLVER_TOLERANCE %g", c.Solver.Tolerance)
	}
	if c.Solver.SimplexSize < 0 {
		return fmt.Errorf("invalid SOLVER_SIMPLEX_SIZE %g", c.Solver.SimplexSize)
	}
	return nil
}

// HousingSolverConfig converts the solver settings for housing.NewPaymentSolver.
// Call after Validate.
func (c *Config) HousingSolverConfig() housing.SolverConfig {
	method, _ := housing.ParseSolverMethod(c.Solver.Method)
	return housing.SolverConfig{
		Method:        method,
		InitialGuess:  c.Solver.InitialGuess,
		MaxIterations: c.Solver.MaxIterations,
		Tolerance:     c.Solver.Tolerance,
		SimplexSize:   c.Solver.SimplexSize,
	}
}

// PrincipalPolicy returns the configured schedule policy. Call after Validate.
func (c *Config) PrincipalPolicy() housing.PrincipalPolicy {
	policy, _ := housing.ParsePrincipalPolicy(c.Solver.PrincipalPolicy)
	return policy
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
