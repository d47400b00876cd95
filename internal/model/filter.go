package model

import (
	"net/url"
	"strings"
)

// FilterAny is the form value meaning "don't filter on this field".
const FilterAny = "Either"

// PetFilter selects pets from the catalog. Zero-value fields match everything.
type PetFilter struct {
	Type   string `json:"type,omitempty"`
	Gender string `json:"gender,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
}

// Normalize trims whitespace and clears "Either" selections.
func (f PetFilter) Normalize() PetFilter {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, FilterAny) {
			return ""
		}
		return s
	}
	return PetFilter{
		Type:   clean(f.Type),
		Gender: clean(f.Gender),
		City:   strings.TrimSpace(f.City),
		State:  strings.TrimSpace(f.State),
	}
}

// IsEmpty reports whether the filter matches the whole catalog.
func (f PetFilter) IsEmpty() bool {
	return f.Normalize() == PetFilter{}
}

// FilterFromValues reads a filter from the pet_type, gender, city and state
// query parameters.
func FilterFromValues(v url.Values) PetFilter {
	return PetFilter{
		Type:   v.Get("pet_type"),
		Gender: v.Get("gender"),
		City:   v.Get("city"),
		State:  v.Get("state"),
	}.Normalize()
}
