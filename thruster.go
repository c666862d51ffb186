package emd

import (
	"fmt"
	"math"
)

// Thruster defines the read contract a motor needs from its load.
type Thruster interface {
	// Returns the mechanical power the thruster needs at its current operating point, in watts.
	PowerRequired() float64
	// Returns the current rotation speed of the thruster, in RPM.
	RPM() float64
	// Returns the ratio of motor shaft RPM to thruster RPM.
	GearRatio() float64
	// Returns the report labels of this thruster, joined by the delimiter.
	Labels(delimiter string) string
	// Returns the report values of this thruster, joined by the delimiter.
	Values(delimiter string) string
}

// TorqueThruster is a Thruster which reports its resisting torque. Only
// torque-capable thrusters may be driven in RPM mode.
type TorqueThruster interface {
	Thruster
	// Returns the resisting torque at the thruster, in N·m.
	Torque() float64
}

// DynamicThruster is a Thruster whose shaft speed evolves with the supplied
// power, as needed by the simulation integrator.
type DynamicThruster interface {
	Thruster
	// SetRPM sets the thruster rotation speed, in RPM.
	SetRPM(rpm float64)
	// Accel returns the rotational acceleration in RPM/s at the given
	// rotation speed when supplied with the given power in watts.
	Accel(powerWatts, rpm float64) float64
}

/* Available thrusters */

// FixedPitchProp models a fixed pitch propeller with a quadratic torque load:
// torque = Kq·ω². It is torque capable and may be driven in RPM mode.
type FixedPitchProp struct {
	Name    string
	Kq      float64 // load coefficient, N·m·s²
	Inertia float64 // rotational inertia about the shaft, kg·m²
	Gear    float64 // motor shaft RPM per propeller RPM
	rpm     float64
}

// NewFixedPitchProp returns a new fixed pitch propeller spinning at initialRPM.
func NewFixedPitchProp(name string, kq, inertia, gear, initialRPM float64) *FixedPitchProp {
	if gear <= 0 {
		gear = 1
	}
	p := &FixedPitchProp{Name: name, Kq: kq, Inertia: inertia, Gear: gear}
	p.SetRPM(initialRPM)
	return p
}

// Torque implements the TorqueThruster interface.
func (p *FixedPitchProp) Torque() float64 {
	ω := p.rpm * RPM2RadPerSec
	return p.Kq * ω * ω
}

// PowerRequired implements the Thruster interface.
func (p *FixedPitchProp) PowerRequired() float64 {
	return ShaftPower(p.Torque(), p.rpm)
}

// RPM implements the Thruster interface.
func (p *FixedPitchProp) RPM() float64 {
	return p.rpm
}

// GearRatio implements the Thruster interface.
func (p *FixedPitchProp) GearRatio() float64 {
	return p.Gear
}

// SetRPM implements the DynamicThruster interface. The propeller does not
// windmill backwards: negative speeds are floored to zero.
func (p *FixedPitchProp) SetRPM(rpm float64) {
	if rpm < 0 {
		rpm = 0
	}
	p.rpm = rpm
}

// Accel implements the DynamicThruster interface.
func (p *FixedPitchProp) Accel(powerWatts, rpm float64) float64 {
	if rpm < 0 {
		rpm = 0
	}
	// Torque conversion is singular at standstill, so floor the shaft speed.
	ω := math.Max(rpm*RPM2RadPerSec, 1)
	loadTorque := p.Kq * ω * ω
	netTorque := powerWatts/ω - loadTorque
	return (netTorque / p.Inertia) * RadPerSec2RPM
}

// Labels implements the Thruster interface.
func (p *FixedPitchProp) Labels(delimiter string) string {
	return fmt.Sprintf("%s RPM%s%s torque (N·m)", p.Name, delimiter, p.Name)
}

// Values implements the Thruster interface.
func (p *FixedPitchProp) Values(delimiter string) string {
	return fmt.Sprintf("%f%s%f", p.rpm, delimiter, p.Torque())
}

// ConstantLoad reports fixed feedback values regardless of the commanded
// power. It is the test collaborator.
type ConstantLoad struct {
	Power float64 // watts
	Speed float64 // RPM
	Ratio float64
	Tq    float64 // N·m
}

// NewConstantLoad returns a load with fixed feedback values.
func NewConstantLoad(power, rpm, gearRatio, torque float64) *ConstantLoad {
	return &ConstantLoad{power, rpm, gearRatio, torque}
}

// PowerRequired implements the Thruster interface.
func (c *ConstantLoad) PowerRequired() float64 {
	return c.Power
}

// RPM implements the Thruster interface.
func (c *ConstantLoad) RPM() float64 {
	return c.Speed
}

// GearRatio implements the Thruster interface.
func (c *ConstantLoad) GearRatio() float64 {
	return c.Ratio
}

// Torque implements the TorqueThruster interface.
func (c *ConstantLoad) Torque() float64 {
	return c.Tq
}

// SetRPM implements the DynamicThruster interface as a no-op.
func (c *ConstantLoad) SetRPM(rpm float64) {}

// Accel implements the DynamicThruster interface: the load never accelerates.
func (c *ConstantLoad) Accel(powerWatts, rpm float64) float64 {
	return 0
}

// Labels implements the Thruster interface.
func (c *ConstantLoad) Labels(delimiter string) string {
	return fmt.Sprintf("load RPM%sload power (W)", delimiter)
}

// Values implements the Thruster interface.
func (c *ConstantLoad) Values(delimiter string) string {
	return fmt.Sprintf("%f%s%f", c.Speed, delimiter, c.Power)
}
