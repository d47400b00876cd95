package model

import "time"

// Pet is one adoptable animal in the local catalog.
type Pet struct {
	ID           int64     `json:"id"`
	ExternalID   string    `json:"external_id,omitempty"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Age          string    `json:"age"`
	Gender       string    `json:"gender"`
	Size         string    `json:"size"`
	Breed        string    `json:"breed"`
	ImageURL     string    `json:"image_url"`
	Description  string    `json:"description"`
	ContactEmail *string   `json:"contact_email"`
	ContactPhone *string   `json:"contact_phone"`
	ContactCity  *string   `json:"contact_city"`
	ContactState *string   `json:"contact_state"`
	CreatedAt    time.Time `json:"created_at"`
}

// Defaults applied when the source record omits a field.
const (
	UnknownLabel       = "Unknown"
	DefaultDescription = "No description available."
)

// Location renders "City, State" from whichever contact parts are present.
func (p Pet) Location() string {
	city, state := deref(p.ContactCity), deref(p.ContactState)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
