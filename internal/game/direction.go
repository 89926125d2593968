package game

import (
	"fmt"
	"strings"
)

// Direction is the way counting and turns travel around the ring.
type Direction int

const (
	Right Direction = iota // follows next links
	Left                   // follows prev links
)

// String returns the string representation of a direction
func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Valid reports whether d is Left or Right.
func (d Direction) Valid() bool {
	return d == Left || d == Right
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}

// ParseDirection accepts "left" or "right", ignoring case and surrounding
// whitespace.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right":
		return Right, nil
	case "left":
		return Left, nil
	default:
		return 0, fmt.Errorf("%w: direction %q, use left or right", ErrInvalidArgument, s)
	}
}
