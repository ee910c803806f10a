package scenarios

import (
	"testing"

	"github.com/aristath/homestead/internal/modules/housing"
	testhelpers "github.com/aristath/homestead/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	factory := housing.NewFactory(housing.DefaultSolverConfig(), housing.PrincipalPolicyPermissive, zerolog.Nop())
	return NewService(newTestRepository(t), factory, zerolog.Nop())
}

func fixtureInput(name, fixture string) ScenarioInput {
	return ScenarioInput{
		Name:        name,
		Assumptions: testhelpers.NewAssumptionFixture(fixture).ToMap(),
	}
}

func TestService_CreateValidatesInput(t *testing.T) {
	svc := newTestService(t)

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Create(fixtureInput("   ", "default"))
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("missing assumption", func(t *testing.T) {
		input := fixtureInput("condo", "default")
		delete(input.Assumptions, "apr")

		_, err := svc.Create(input)
		assert.ErrorIs(t, err, housing.ErrInvalidAssumptions)
	})

	t.Run("unknown assumption", func(t *testing.T) {
		input := fixtureInput("condo", "default")
		input.Assumptions["vacancy"] = 0.1

		_, err := svc.Create(input)
		assert.ErrorIs(t, err, housing.ErrInvalidAssumptions)
	})

	list, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, list, "rejected input is never stored")
}

func TestService_CRUD(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(fixtureInput("  Condo  ", "default"))
	require.NoError(t, err)
	assert.Equal(t, "Condo", created.Name)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, housing.DefaultAssumptions(), got.Assumptions)

	updated, err := svc.Update(created.ID, fixtureInput("Condo (rented)", "rented"))
	require.NoError(t, err)
	assert.Equal(t, 0.025, updated.Assumptions.TenantIncome)

	list, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(created.ID))
	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestService_Evaluate(t *testing.T) {
	svc := newTestService(t)

	deficit, err := svc.Create(fixtureInput("default", "default"))
	require.NoError(t, err)
	surplus, err := svc.Create(fixtureInput("rented", "rented"))
	require.NoError(t, err)

	res, err := svc.Evaluate(deficit.ID)
	require.NoError(t, err)
	assert.Equal(t, deficit.ID, res.Scenario.ID)
	assert.Equal(t, housing.BranchFinance, res.Evaluation.Branch)
	assert.InDelta(t, -0.013753150183919871, res.Evaluation.MIRR, 1e-6)

	res, err = svc.Evaluate(surplus.ID)
	require.NoError(t, err)
	assert.Equal(t, housing.BranchReinvest, res.Evaluation.Branch)
	assert.Greater(t, res.Evaluation.MIRR, 0.0)

	_, err = svc.Evaluate("missing")
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestService_Sensitivity(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(fixtureInput("default", "default"))
	require.NoError(t, err)

	res, err := svc.Sensitivity(created.ID, "apr", 0.001, 0.004)
	require.NoError(t, err)
	assert.Equal(t, "apr", res.Attribute)
	require.Len(t, res.MIRR, housing.SensitivityPoints)
	assert.InDelta(t, 0.006893595417228449, res.MIRR[0], 1e-6)
	assert.InDelta(t, -0.03095011710101858, res.MIRR[9], 1e-6)

	stored, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, housing.DefaultAssumptions(), stored.Assumptions, "sweeps never persist")

	_, err = svc.Sensitivity(created.ID, "rent", 0, 1)
	assert.ErrorIs(t, err, housing.ErrAttributeNotFound)

	_, err = svc.Sensitivity("missing", "apr", 0, 1)
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}
