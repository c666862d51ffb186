package emd

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestPowerConversions(t *testing.T) {
	if !floats.EqualWithinAbs(HP2Watts(1), 745.699872, 1e-9) {
		t.Fatal("incorrect HP to watts conversion")
	}
	for _, w := range []float64{0, 1, 745.699872, 1e6} {
		if !floats.EqualWithinAbs(HP2Watts(Watts2HP(w)), w, 1e-9) {
			t.Fatalf("%f W does not round trip", w)
		}
	}
}

func TestShaftPower(t *testing.T) {
	// 1 N·m at 60 RPM is 2π W.
	if !floats.EqualWithinAbs(ShaftPower(1, 60), 2*math.Pi, 1e-12) {
		t.Fatal("incorrect shaft power")
	}
	if ShaftPower(0, 3000) != 0 {
		t.Fatal("zero torque must yield zero power")
	}
}

func TestRPMConversions(t *testing.T) {
	if !floats.EqualWithinAbs(60*RPM2RadPerSec, 2*math.Pi, 1e-12) {
		t.Fatal("incorrect RPM to rad/s conversion")
	}
	if !floats.EqualWithinAbs(RPM2RadPerSec*RadPerSec2RPM, 1, 1e-15) {
		t.Fatal("RPM conversions are not inverses")
	}
}
