package model

import (
	"fmt"
	"strings"
	"time"
)

// Lesson is a single entry of the ordered list.
type Lesson struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Rank orders lessons lexicographically; only the server assigns it.
	Rank      string    `json:"rank,omitempty" yaml:"rank,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Delta returns the index offset for d (-1 for up, +1 for down, 0 otherwise).
func (d Direction) Delta() int {
	switch d {
	case Up:
		return -1
	case Down:
		return 1
	default:
		return 0
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	default:
		return "", fmt.Errorf("invalid direction: %q (expected up|down)", s)
	}
}

// NormalizeTitle trims surrounding whitespace. An empty result means the title is not usable.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(s)
}
