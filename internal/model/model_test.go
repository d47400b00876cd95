package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPetFilterNormalize(t *testing.T) {
	tests := []struct {
		in   PetFilter
		want PetFilter
	}{
		{PetFilter{}, PetFilter{}},
		{PetFilter{Type: "Either", Gender: "Either"}, PetFilter{}},
		{PetFilter{Type: "either"}, PetFilter{}},
		{PetFilter{Type: " Dog ", Gender: "Female"}, PetFilter{Type: "Dog", Gender: "Female"}},
		{PetFilter{City: "  New York ", State: " ny"}, PetFilter{City: "New York", State: "ny"}},
		// "Either" only has meaning for the select fields.
		{PetFilter{City: "Either"}, PetFilter{City: "Either"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize(), "Normalize(%+v)", tt.in)
	}
}

func TestPetFilterIsEmpty(t *testing.T) {
	assert.True(t, PetFilter{}.IsEmpty())
	assert.True(t, PetFilter{Type: FilterAny, Gender: FilterAny, City: "  "}.IsEmpty())
	assert.False(t, PetFilter{State: "NY"}.IsEmpty())
}

func TestPetLocation(t *testing.T) {
	city, state := "Brooklyn", "NY"

	assert.Equal(t, "Brooklyn, NY", (&Pet{ContactCity: &city, ContactState: &state}).Location())
	assert.Equal(t, "Brooklyn", (&Pet{ContactCity: &city}).Location())
	assert.Equal(t, "NY", (&Pet{ContactState: &state}).Location())
	assert.Equal(t, "", (&Pet{}).Location())
}

func TestStatusCountsTotal(t *testing.T) {
	assert.Equal(t, 6, StatusCounts{Undecided: 3, Hearted: 2, Skipped: 1}.Total())
}

func TestFilterFromValues(t *testing.T) {
	v := url.Values{
		"pet_type": {"Cat"},
		"gender":   {"Either"},
		"city":     {" Brooklyn "},
	}
	assert.Equal(t, PetFilter{Type: "Cat", City: "Brooklyn"}, FilterFromValues(v))
	assert.True(t, FilterFromValues(url.Values{}).IsEmpty())
}
