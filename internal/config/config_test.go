package config

import (
	"path/filepath"
	"testing"

	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOMESTEAD_DATA_DIR", "PORT", "LOG_LEVEL", "DEV_MODE",
		"SOLVER_METHOD", "SOLVER_INITIAL_GUESS", "SOLVER_MAX_ITERATIONS",
		"SOLVER_TOLERANCE", "SOLVER_SIMPLEX_SIZE", "PRINCIPAL_POLICY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("HOMESTEAD_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)

	assert.Equal(t, housing.DefaultSolverConfig(), cfg.HousingSolverConfig())
	assert.Equal(t, housing.PrincipalPolicyPermissive, cfg.PrincipalPolicy())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOMESTEAD_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("SOLVER_METHOD", "closed-form")
	t.Setenv("SOLVER_INITIAL_GUESS", "2500.5")
	t.Setenv("SOLVER_MAX_ITERATIONS", "200")
	t.Setenv("SOLVER_TOLERANCE", "1e-8")
	t.Setenv("SOLVER_SIMPLEX_SIZE", "0.25")
	t.Setenv("PRINCIPAL_POLICY", "floored")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, housing.SolverConfig{
		Method:        housing.SolverClosedForm,
		InitialGuess:  2500.5,
		MaxIterations: 200,
		Tolerance:     1e-8,
		SimplexSize:   0.25,
	}, cfg.HousingSolverConfig())
	assert.Equal(t, housing.PrincipalPolicyFloored, cfg.PrincipalPolicy())
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOMESTEAD_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "eighty")
	t.Setenv("SOLVER_TOLERANCE", "tight")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1e-6, cfg.Solver.Tolerance)
}

func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown solver", "SOLVER_METHOD", "bfgs"},
		{"unknown policy", "PRINCIPAL_POLICY", "strict"},
		{"port out of range", "PORT", "70000"},
		{"negative tolerance", "SOLVER_TOLERANCE", "-1"},
		{"negative simplex", "SOLVER_SIMPLEX_SIZE", "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("HOMESTEAD_DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
