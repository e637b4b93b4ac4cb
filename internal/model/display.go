package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NextEvent is the upcoming instant a display counts down to
type NextEvent struct {
	At    time.Time `json:"at"`
	Label string    `json:"label,omitempty"`
}

// Display represents one countdown screen
type Display struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Next      *NextEvent `json:"next_event,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateDisplayInput represents input for registering a display
type CreateDisplayInput struct {
	Name string `json:"name"`
}

// SetNextEventInput represents input pushed by the external scheduler
type SetNextEventInput struct {
	At    string `json:"at"`
	Label string `json:"label"`
}

// DisplayID derives a stable ID from a display name so URLs survive restarts.
func DisplayID(name string) uuid.UUID {
	key := "muadzin:display:" + strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
}
