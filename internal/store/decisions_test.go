package store

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/pawswipe/internal/db"
	"github.com/erazemk/pawswipe/internal/model"
)

func countRows(t *testing.T, database *sql.DB, table string, petID int64) int {
	t.Helper()
	var n int
	err := database.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE pet_id = ?`, petID).Scan(&n)
	require.NoError(t, err)
	return n
}

func assertStatus(t *testing.T, database *sql.DB, petID int64, want model.PetStatus) {
	t.Helper()
	got, err := GetPetStatus(context.Background(), database, petID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHeartThenSkip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	p := seedPet(t, database, "Rex", "Dog", "NY")

	assertStatus(t, database, p.ID, model.StatusUndecided)

	require.NoError(t, Heart(ctx, database, p.ID))
	assertStatus(t, database, p.ID, model.StatusHearted)

	require.NoError(t, Skip(ctx, database, p.ID))
	assertStatus(t, database, p.ID, model.StatusSkipped)
	assert.Zero(t, countRows(t, database, heartedTable, p.ID))
	assert.Equal(t, 1, countRows(t, database, skippedTable, p.ID))
}

func TestHeartIsIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	p := seedPet(t, database, "Rex", "Dog", "NY")

	require.NoError(t, Heart(ctx, database, p.ID))
	require.NoError(t, Heart(ctx, database, p.ID))

	assert.Equal(t, 1, countRows(t, database, heartedTable, p.ID))
	hearted, err := ListHearted(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, petIDs(hearted))
}

func TestSkipIsIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	p := seedPet(t, database, "Rex", "Dog", "NY")

	require.NoError(t, Skip(ctx, database, p.ID))
	require.NoError(t, Skip(ctx, database, p.ID))

	assert.Equal(t, 1, countRows(t, database, skippedTable, p.ID))
}

func TestDecisionOnUnknownPet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	require.ErrorIs(t, Heart(ctx, database, 404), ErrPetNotFound)
	require.ErrorIs(t, Skip(ctx, database, 404), ErrPetNotFound)

	_, err := GetPetStatus(ctx, database, 404)
	require.ErrorIs(t, err, ErrPetNotFound)
}

func TestNeverInBothSets(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	var pets []*model.Pet
	for _, name := range []string{"A", "B", "C"} {
		pets = append(pets, seedPet(t, database, name, "Dog", "NY"))
	}

	// Walk a fixed but mixed sequence of decisions over the pets.
	ops := []struct {
		heart bool
		pet   int
	}{
		{true, 0}, {false, 0}, {true, 1}, {true, 1}, {false, 2},
		{true, 2}, {false, 1}, {true, 0}, {false, 2}, {false, 2},
	}
	for i, op := range ops {
		id := pets[op.pet].ID
		if op.heart {
			require.NoError(t, Heart(ctx, database, id))
		} else {
			require.NoError(t, Skip(ctx, database, id))
		}

		for _, p := range pets {
			h := countRows(t, database, heartedTable, p.ID)
			s := countRows(t, database, skippedTable, p.ID)
			require.LessOrEqual(t, h+s, 1, "step %d: pet %s in both sets", i, p.Name)
		}
	}

	assertStatus(t, database, pets[0].ID, model.StatusHearted)
	assertStatus(t, database, pets[1].ID, model.StatusSkipped)
	assertStatus(t, database, pets[2].ID, model.StatusSkipped)
}

func TestNextUndecided(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	next, err := NextUndecided(ctx, database)
	require.NoError(t, err)
	assert.Nil(t, next, "empty catalog has no next pet")

	p1 := seedPet(t, database, "One", "Dog", "NY")
	p2 := seedPet(t, database, "Two", "Cat", "NY")

	for range 20 {
		next, err := NextUndecided(ctx, database)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Contains(t, []int64{p1.ID, p2.ID}, next.ID)
	}

	require.NoError(t, Heart(ctx, database, p1.ID))
	for range 10 {
		next, err := NextUndecided(ctx, database)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, p2.ID, next.ID, "hearted pets are never offered again")
	}

	require.NoError(t, Skip(ctx, database, p2.ID))
	next, err = NextUndecided(ctx, database)
	require.NoError(t, err)
	assert.Nil(t, next, "every pet decided")
}

func TestNextUndecidedIsNotStuckOnOnePet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C", "D"} {
		seedPet(t, database, name, "Dog", "NY")
	}

	seen := map[int64]bool{}
	for range 200 {
		next, err := NextUndecided(ctx, database)
		require.NoError(t, err)
		seen[next.ID] = true
	}
	assert.Len(t, seen, 4)
}

func TestStatusScenario(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p1 := seedPet(t, database, "P1", "dog", "NY")
	p2 := seedPet(t, database, "P2", "cat", "NY")
	p3 := seedPet(t, database, "P3", "dog", "CA")

	require.NoError(t, Heart(ctx, database, p1.ID))
	require.NoError(t, Skip(ctx, database, p2.ID))

	next, err := NextUndecided(ctx, database)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, p3.ID, next.ID)

	hearted, err := ListHearted(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, []int64{p1.ID}, petIDs(hearted))

	skipped, err := ListSkipped(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, []int64{p2.ID}, petIDs(skipped))

	dogs, err := FilterPets(ctx, database, model.PetFilter{Type: "dog"})
	require.NoError(t, err)
	assert.Equal(t, []int64{p1.ID, p3.ID}, petIDs(dogs))

	counts, err := CountByStatus(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCounts{Undecided: 1, Hearted: 1, Skipped: 1}, counts)
}

func TestHeartSkipHeartLeavesOneHeartedRow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	p3 := seedPet(t, database, "P3", "dog", "CA")

	require.NoError(t, Heart(ctx, database, p3.ID))
	require.NoError(t, Skip(ctx, database, p3.ID))
	require.NoError(t, Heart(ctx, database, p3.ID))

	assertStatus(t, database, p3.ID, model.StatusHearted)
	assert.Equal(t, 1, countRows(t, database, heartedTable, p3.ID))
	assert.Zero(t, countRows(t, database, skippedTable, p3.ID))
}

func TestListOrderFollowsDecisionOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	a := seedPet(t, database, "A", "Dog", "NY")
	b := seedPet(t, database, "B", "Dog", "NY")

	require.NoError(t, Heart(ctx, database, b.ID))
	require.NoError(t, Heart(ctx, database, a.ID))

	hearted, err := ListHearted(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, a.ID}, petIDs(hearted))
}

func TestConcurrentDecisionsOnOnePet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	pet := seedPet(t, database, "Rex", "Dog", "NY")

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				errs <- Heart(ctx, database, pet.ID)
			} else {
				errs <- Skip(ctx, database, pet.ID)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	h := countRows(t, database, heartedTable, pet.ID)
	s := countRows(t, database, skippedTable, pet.ID)
	assert.Equal(t, 1, h+s, "pet must be in exactly one set")
}
