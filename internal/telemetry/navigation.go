package telemetry

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four thruster directions.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Directions lists all thruster directions.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// ErrInvalidDirection is returned for unknown direction names.
var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection accepts up, down, left or right.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirUp, DirDown, DirLeft, DirRight:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// NavigationFuelCost is the fuel burned by one thruster press.
const NavigationFuelCost = 0.1

// NavigationControls holds one active flag per direction.
type NavigationControls struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Set marks a direction active or idle.
func (n *NavigationControls) Set(d Direction, active bool) {
	switch d {
	case DirUp:
		n.Up = active
	case DirDown:
		n.Down = active
	case DirLeft:
		n.Left = active
	case DirRight:
		n.Right = active
	}
}

// IsActive reports the flag for d.
func (n NavigationControls) IsActive(d Direction) bool {
	switch d {
	case DirUp:
		return n.Up
	case DirDown:
		return n.Down
	case DirLeft:
		return n.Left
	case DirRight:
		return n.Right
	}
	return false
}

// Active counts the directions currently pressed.
func (n NavigationControls) Active() int {
	c := 0
	for _, d := range Directions {
		if n.IsActive(d) {
			c++
		}
	}
	return c
}
