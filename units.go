package emd

import "math"

const (
	// RPM2RadPerSec converts revolutions per minute to radians per second.
	RPM2RadPerSec = math.Pi / 30
	// RadPerSec2RPM converts radians per second to revolutions per minute.
	RadPerSec2RPM = 1 / RPM2RadPerSec
	// WattsPerHP is one mechanical horsepower in watts.
	WattsPerHP = 745.699872
)

// Watts2HP converts a power in watts to mechanical horsepower.
func Watts2HP(w float64) float64 {
	return w / WattsPerHP
}

// HP2Watts converts a power in mechanical horsepower to watts.
func HP2Watts(hp float64) float64 {
	return hp * WattsPerHP
}

// ShaftPower returns the power in watts delivered by the given torque (N·m) at
// the given shaft speed (RPM).
func ShaftPower(torque, rpm float64) float64 {
	return torque * rpm * RPM2RadPerSec
}
