package emd

import (
	"testing"

	"github.com/gonum/floats"
)

var (
	_ TorqueThruster  = (*FixedPitchProp)(nil)
	_ DynamicThruster = (*FixedPitchProp)(nil)
	_ TorqueThruster  = (*ConstantLoad)(nil)
	_ DynamicThruster = (*ConstantLoad)(nil)
)

func TestFixedPitchProp(t *testing.T) {
	prop := NewFixedPitchProp("prop", 1e-4, 0.01, 1, 600)
	ω := 600 * RPM2RadPerSec
	expTorque := 1e-4 * ω * ω
	if !floats.EqualWithinAbs(prop.Torque(), expTorque, 1e-12) {
		t.Fatalf("torque %f, expected %f N·m", prop.Torque(), expTorque)
	}
	if !floats.EqualWithinAbs(prop.PowerRequired(), expTorque*ω, 1e-12) {
		t.Fatalf("power required %f, expected %f W", prop.PowerRequired(), expTorque*ω)
	}
	// More power than the load absorbs spins the prop up, less spins it down.
	if prop.Accel(2*prop.PowerRequired(), prop.RPM()) <= 0 {
		t.Fatal("excess power must spin the prop up")
	}
	if prop.Accel(0, prop.RPM()) >= 0 {
		t.Fatal("no power must spin the prop down")
	}
}

func TestFixedPitchPropNoWindmill(t *testing.T) {
	prop := NewFixedPitchProp("prop", 1e-4, 0.01, 1, -100)
	if prop.RPM() != 0 {
		t.Fatal("negative shaft speeds must floor to zero")
	}
	prop.SetRPM(-42)
	if prop.RPM() != 0 {
		t.Fatal("negative shaft speeds must floor to zero")
	}
}

func TestFixedPitchPropDefaults(t *testing.T) {
	prop := NewFixedPitchProp("prop", 1e-4, 0.01, 0, 100)
	if prop.GearRatio() != 1 {
		t.Fatal("an unset gear ratio must default to 1")
	}
}

func TestConstantLoad(t *testing.T) {
	load := NewConstantLoad(100, 1200, 2, 5)
	load.SetRPM(9999)
	if load.RPM() != 1200 || load.PowerRequired() != 100 || load.GearRatio() != 2 || load.Torque() != 5 {
		t.Fatal("constant load must ignore any input")
	}
	if load.Accel(1e6, 1200) != 0 {
		t.Fatal("constant load never accelerates")
	}
}
