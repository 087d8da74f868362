// Package input decodes analog sticks and touch drags into the directions
// the snake understands.
package input

import (
	"math"

	"snake-game/game/types"
)

const (
	// Deadzone is the smallest vector magnitude that counts as input.
	Deadzone = 50.
	// AxisDeadzone is how close (squared distance between unit vectors) a
	// drag must be to a cardinal axis to read as a single direction.
	AxisDeadzone = 0.2
)

// DirectionsFromVector returns the directions to queue for a drag of
// (x, y), +x right and +y up. Near-cardinal drags give one direction,
// diagonal drags give the horizontal then the vertical component, and
// anything inside the deadzone gives none.
func DirectionsFromVector(x, y float64) []types.Direction {
	return directionsFromVector(x, y, Deadzone)
}

// DirectionsFromAxis is DirectionsFromVector for inputs already normalised
// to [-1, 1] such as gamepad sticks.
func DirectionsFromAxis(x, y, deadzone float64) []types.Direction {
	return directionsFromVector(x, y, deadzone)
}

func directionsFromVector(x, y, deadzone float64) []types.Direction {
	magnitude := math.Hypot(x, y)
	if magnitude <= deadzone || magnitude == 0 {
		return nil
	}
	nx, ny := x/magnitude, y/magnitude

	horizontal := types.Right
	if nx < 0 {
		horizontal = types.Left
	}
	vertical := types.Up
	if ny < 0 {
		vertical = types.Down
	}

	// Squared distance to the nearest unit vector on each axis.
	toHorizontal := distanceSquared(nx, ny, math.Copysign(1, nx), 0)
	toVertical := distanceSquared(nx, ny, 0, math.Copysign(1, ny))

	switch {
	case toVertical < AxisDeadzone:
		return []types.Direction{vertical}
	case toHorizontal < AxisDeadzone:
		return []types.Direction{horizontal}
	}
	return []types.Direction{horizontal, vertical}
}

func distanceSquared(ax, ay, bx, by float64) float64 {
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}
