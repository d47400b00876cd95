package model

import "time"

// Photo is a locally cached, downscaled copy of a pet's source image.
type Photo struct {
	PetID     int64
	Data      []byte
	MIME      string
	Width     int
	Height    int
	ETag      string
	FetchedAt time.Time
}
