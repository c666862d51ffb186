package emd

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
)

/* Handles the electric motor control law. */

// CommandMode defines an enum of throttle command interpretations.
type CommandMode uint8

const (
	// PowerMode interprets the throttle as a fraction of the rated power.
	PowerMode CommandMode = iota + 1
	// RPMMode interprets the throttle as a fraction of the rated RPM.
	RPMMode
)

func (m CommandMode) String() string {
	switch m {
	case PowerMode:
		return "power"
	case RPMMode:
		return "rpm"
	}
	panic("cannot stringify unknown command mode")
}

// minDT is the floor on the update timestep, which keeps the filter
// coefficient finite when the caller passes a degenerate dt.
const minDT = 1e-4

// MotorConfig defines the static configuration of an electric motor.
type MotorConfig struct {
	MaxPower float64 // rated maximum shaft power, in watts
	MaxRPM   float64 // rated RPM; 0 selects PowerMode
	Tau      float64 // feedback filter time constant in seconds; 0 disables filtering
}

// Validate returns an error if any configuration value is negative.
func (c MotorConfig) Validate() error {
	if c.MaxPower < 0 {
		return fmt.Errorf("motor config: negative max power (%f W)", c.MaxPower)
	}
	if c.MaxRPM < 0 {
		return fmt.Errorf("motor config: negative max RPM (%f)", c.MaxRPM)
	}
	if c.Tau < 0 {
		return fmt.Errorf("motor config: negative filter time constant (%f s)", c.Tau)
	}
	return nil
}

// Mode returns the command mode this configuration selects.
func (c MotorConfig) Mode() CommandMode {
	if c.MaxRPM > 0 {
		return RPMMode
	}
	return PowerMode
}

// Feedback is a read-only snapshot of the thruster state consumed by Update.
type Feedback struct {
	RPM           float64 // thruster rotation speed
	GearRatio     float64 // motor shaft RPM per thruster RPM
	PowerRequired float64 // mechanical power the thruster needs at its operating point, in watts
	Torque        float64 // resisting torque at the thruster, in N·m; meaningful only if TorqueValid
	TorqueValid   bool
}

// ReadFeedback snapshots the given thruster for a motor update.
func ReadFeedback(th Thruster) Feedback {
	fb := Feedback{RPM: th.RPM(), GearRatio: th.GearRatio(), PowerRequired: th.PowerRequired()}
	if tq, ok := th.(TorqueThruster); ok {
		fb.Torque = tq.Torque()
		fb.TorqueValid = true
	}
	return fb
}

// Motor models the per-frame control law of an electric propulsion motor.
// The command mode is fixed at construction and never toggles.
type Motor struct {
	Name      string
	cfg       MotorConfig
	mode      CommandMode
	filtState float64 // carried filter output, RPM or watts depending on mode
	cmdPower  float64 // last commanded power, in watts
	warnedTq  bool
	logger    kitlog.Logger
}

// NewMotor returns a new motor, or an error if the configuration is invalid.
// A nil logger disables logging.
func NewMotor(name string, cfg MotorConfig, logger kitlog.Logger) (*Motor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("motor %s: %w", name, err)
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	logger = kitlog.With(logger, "subsys", "motor", "motor", name)
	return &Motor{Name: name, cfg: cfg, mode: cfg.Mode(), logger: logger}, nil
}

// Mode returns the command mode of this motor.
func (m *Motor) Mode() CommandMode {
	return m.mode
}

// Update computes the commanded power in watts for this frame.
//
// throttle is notionally in [0,1] but is not range checked: out-of-range
// values propagate through the math and only the ceiling clamp applies.
// dt is the elapsed simulated time in seconds, floored to 0.0001 s.
func (m *Motor) Update(throttle, dt float64, fb Feedback) float64 {
	if dt < minDT {
		dt = minDT
	}

	var cmdPower float64
	switch m.mode {
	case RPMMode:
		cmdRPM := math.Min(m.cfg.MaxRPM*throttle, m.cfg.MaxRPM)
		rpm := math.Min(fb.RPM*fb.GearRatio, m.cfg.MaxRPM)

		// First order lag on the RPM measure.
		if m.cfg.Tau > 0 {
			alpha := 1 / (1 + m.cfg.Tau/dt)
			rpm = alpha*rpm + (1-alpha)*m.filtState
			m.filtState = rpm
		}

		if !fb.TorqueValid && !m.warnedTq {
			m.warnedTq = true
			m.logger.Log("level", "warning", "message", "no torque feedback, RPM tracking degenerates to load power")
		}
		deltaRPM := cmdRPM - rpm
		torqueReq := math.Abs(fb.Torque) / fb.GearRatio
		cmdPower = torqueReq*deltaRPM*RPM2RadPerSec + fb.PowerRequired

	case PowerMode:
		powerReqFilt := fb.PowerRequired

		// First order lag on the power measure.
		if m.cfg.Tau > 0 {
			alpha := 1 / (1 + m.cfg.Tau/dt)
			powerReqFilt = alpha*fb.PowerRequired + (1-alpha)*m.filtState
			m.filtState = powerReqFilt
		}

		// With the filter disabled the last two terms cancel exactly.
		cmdPower = m.cfg.MaxPower*throttle + fb.PowerRequired - powerReqFilt
	}

	cmdPower = math.Min(cmdPower, m.cfg.MaxPower) // Limit to MaxPower, no floor.
	m.cmdPower = cmdPower
	return cmdPower
}

// LastCommand returns the last commanded power, in watts.
func (m *Motor) LastCommand() float64 {
	return m.cmdPower
}

// LastCommandHP returns the last commanded power, in mechanical horsepower.
// This is the observable exposed to telemetry.
func (m *Motor) LastCommandHP() float64 {
	return Watts2HP(m.cmdPower)
}

// FuelNeed returns the fuel mass needed by this motor, which is always zero:
// an electric motor consumes no combustible fuel.
func (m *Motor) FuelNeed() float64 {
	return 0
}

// Labels returns the report labels of this motor joined with those of the
// given thruster through the delimiter.
func (m *Motor) Labels(th Thruster, delimiter string) string {
	return fmt.Sprintf("%s HP%s%s", m.Name, delimiter, th.Labels(delimiter))
}

// Values returns the report values of this motor joined with those of the
// given thruster through the delimiter.
func (m *Motor) Values(th Thruster, delimiter string) string {
	return fmt.Sprintf("%f%s%s", m.LastCommandHP(), delimiter, th.Values(delimiter))
}
