package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/pawswipe/internal/model"
)

func strp(s string) *string { return &s }

// seedPet inserts a pet with the given name, type and contact state.
func seedPet(t *testing.T, database *sql.DB, name, petType, state string) *model.Pet {
	t.Helper()
	p, err := CreatePet(context.Background(), database, &model.Pet{
		Name:         name,
		Type:         petType,
		Gender:       "Female",
		Breed:        model.UnknownLabel,
		Description:  model.DefaultDescription,
		ContactState: strp(state),
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func petIDs(pets []model.Pet) []int64 {
	ids := make([]int64, 0, len(pets))
	for _, p := range pets {
		ids = append(ids, p.ID)
	}
	return ids
}
