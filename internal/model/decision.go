package model

// Decision kinds, used as metric labels.
const (
	DecisionHearted = "hearted"
	DecisionSkipped = "skipped"
)

// PetStatus is where a pet sits in the undecided/hearted/skipped partition.
type PetStatus string

// Pet statuses.
const (
	StatusUndecided PetStatus = "undecided"
	StatusHearted   PetStatus = "hearted"
	StatusSkipped   PetStatus = "skipped"
)

// StatusCounts is the size of each partition of the catalog.
type StatusCounts struct {
	Undecided int `json:"undecided"`
	Hearted   int `json:"hearted"`
	Skipped   int `json:"skipped"`
}

// Total returns the catalog size.
func (c StatusCounts) Total() int {
	return c.Undecided + c.Hearted + c.Skipped
}
