package scenarios

import (
	"testing"
	"time"

	testhelpers "github.com/aristath/homestead/internal/testing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db := testhelpers.NewTestDB(t, "scenarios")
	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	a := testhelpers.NewAssumptionFixture("rented")

	created, err := repo.Create("Rented condo", a)
	require.NoError(t, err)

	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Rented condo", created.Name)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Rented condo", got.Name)
	assert.Equal(t, a, got.Assumptions, "msgpack keeps every field bit for bit")
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID("does-not-exist")
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestRepository_ListOrdersByUpdate(t *testing.T) {
	repo := newTestRepository(t)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	first, err := repo.Create("first", testhelpers.NewAssumptionFixture("default"))
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	second, err := repo.Create("second", testhelpers.NewAssumptionFixture("short_hold"))
	require.NoError(t, err)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 2.5, list[0].Assumptions.InvestingYears)

	// Touching the older scenario moves it to the front.
	clock = clock.Add(time.Hour)
	_, err = repo.Update(first.ID, "first, revised", testhelpers.NewAssumptionFixture("default"))
	require.NoError(t, err)

	list, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "first, revised", list[0].Name)
}

func TestRepository_ListEmpty(t *testing.T) {
	repo := newTestRepository(t)

	list, err := repo.List()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRepository_Update(t *testing.T) {
	repo := newTestRepository(t)

	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	created, err := repo.Create("condo", testhelpers.NewAssumptionFixture("default"))
	require.NoError(t, err)

	clock = clock.Add(24 * time.Hour)
	changed := created.Assumptions
	changed.HousePrice = 750000

	updated, err := repo.Update(created.ID, "cheaper condo", changed)
	require.NoError(t, err)
	assert.Equal(t, "cheaper condo", updated.Name)
	assert.Equal(t, 750000.0, updated.Assumptions.HousePrice)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock, updated.UpdatedAt)

	_, err = repo.Update("missing", "x", changed)
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)

	created, err := repo.Create("condo", testhelpers.NewAssumptionFixture("default"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(created.ID))

	_, err = repo.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrScenarioNotFound)

	assert.ErrorIs(t, repo.Delete(created.ID), ErrScenarioNotFound)
}
