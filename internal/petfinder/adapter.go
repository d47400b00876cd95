package petfinder

import (
	"strconv"

	"github.com/erazemk/pawswipe/internal/model"
)

// ToPet converts a source animal into a catalog pet, filling in defaults for
// anything the source left out.
func ToPet(a Animal) model.Pet {
	p := model.Pet{
		ExternalID:  strconv.FormatInt(a.ID, 10),
		Type:        valueOr(a.Type, model.UnknownLabel),
		Name:        a.Name,
		Age:         valueOr(a.Age, ""),
		Gender:      valueOr(a.Gender, ""),
		Size:        valueOr(a.Size, ""),
		Breed:       model.UnknownLabel,
		Description: model.DefaultDescription,
	}
	if a.ID == 0 {
		p.ExternalID = ""
	}

	if a.Breeds != nil && a.Breeds.Primary != nil {
		p.Breed = *a.Breeds.Primary
	}
	if len(a.Photos) > 0 {
		p.ImageURL = a.Photos[0].Medium
	}
	if a.Description != nil && *a.Description != "" {
		p.Description = *a.Description
	}

	if c := a.Contact; c != nil {
		p.ContactEmail = c.Email
		p.ContactPhone = c.Phone
		if addr := c.Address; addr != nil {
			p.ContactCity = addr.City
			p.ContactState = addr.State
		}
	}

	return p
}

// ToPets converts a batch of animals.
func ToPets(animals []Animal) []model.Pet {
	pets := make([]model.Pet, 0, len(animals))
	for _, a := range animals {
		pets = append(pets, ToPet(a))
	}
	return pets
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
