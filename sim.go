package emd

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

const (
	// StepSize is the default step size of the simulation.
	StepSize = 10 * time.Millisecond
)

var wg sync.WaitGroup

/* Handles the per-frame propulsion simulation. */

// ThrottleFunc returns the throttle command for a given simulation time.
type ThrottleFunc func(dt time.Time) float64

// ConstantThrottle returns a ThrottleFunc which always commands cmd.
func ConstantThrottle(cmd float64) ThrottleFunc {
	return func(dt time.Time) float64 {
		return cmd
	}
}

// Sim drives one motor and its thruster, stepping the motor exactly once per
// frame and integrating the thruster shaft speed in between.
type Sim struct {
	Motor                      *Motor
	Thruster                   DynamicThruster
	StartDT, StopDT, CurrentDT time.Time
	throttle                   ThrottleFunc
	step                       time.Duration
	cmdPower                   float64 // watts, supplied to the thruster for the current frame
	rpmNoise                   *distmv.Normal
	stopChan                   chan (bool)
	histChan                   chan<- (State)
	logger                     kitlog.Logger
	done                       bool
}

// NewSim returns a new simulation of the given motor and thruster.
//
// An RPM-mode motor requires a torque capable thruster: anything else is a
// configuration error, not a silent fallback. A positive rpmNoiseSigma adds
// zero-mean Gaussian noise to the RPM feedback to emulate a real sensor.
func NewSim(m *Motor, th DynamicThruster, start time.Time, duration, step time.Duration, throttle ThrottleFunc, rpmNoiseSigma float64, conf ExportConfig, logger kitlog.Logger) (*Sim, error) {
	if m.Mode() == RPMMode {
		if _, ok := th.(TorqueThruster); !ok {
			return nil, fmt.Errorf("motor %s: RPM mode requires a torque capable thruster", m.Name)
		}
	}
	if step <= 0 {
		step = StepSize
	}
	var histChan chan (State)
	if !conf.IsUseless() {
		histChan = make(chan (State), 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamStates(conf, histChan)
		}()
	}
	var rpmNoise *distmv.Normal
	if rpmNoiseSigma > 0 {
		seed := rand.New(rand.NewSource(time.Now().UnixNano()))
		var ok bool
		rpmNoise, ok = distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{rpmNoiseSigma * rpmNoiseSigma}), seed)
		if !ok {
			return nil, fmt.Errorf("motor %s: could not build the RPM noise model", m.Name)
		}
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	logger = kitlog.With(logger, "subsys", "sim", "motor", m.Name)
	s := &Sim{m, th, start, start.Add(duration), start, throttle, step, 0, rpmNoise, make(chan (bool), 1), histChan, logger, false}
	// Write the first data point.
	if histChan != nil {
		histChan <- s.snapshot()
	}
	return s, nil
}

// LogStatus logs the current state of the simulation.
func (s *Sim) LogStatus() {
	s.logger.Log("level", "info", "date", s.CurrentDT, "rpm", s.Thruster.RPM(), "power(hp)", s.Motor.LastCommandHP())
}

// Run starts the simulation and blocks until the stop date is reached or the
// simulation is halted.
func (s *Sim) Run() {
	s.LogStatus()
	ticker := time.NewTicker(10 * time.Second)
	go func() {
		for range ticker.C {
			if s.done {
				break
			}
			s.LogStatus()
		}
	}()
	ode.NewRK4(0, s.step.Seconds(), s).Solve() // Blocking.
	s.done = true
	ticker.Stop()
	s.logger.Log("level", "notice", "status", "finished", "duration", s.CurrentDT.Sub(s.StartDT), "rpm", s.Thruster.RPM(), "power(hp)", s.Motor.LastCommandHP())
	wg.Wait() // Don't return until we're done writing all the files.
}

// Halt stops the simulation before its end date.
func (s *Sim) Halt() {
	s.stopChan <- true
}

// Stop implements the stop call of the integrator. To stop the simulation,
// call Halt().
func (s *Sim) Stop(t float64) bool {
	select {
	case <-s.stopChan:
		if s.histChan != nil {
			close(s.histChan)
		}
		return true // Stop because there is a request to stop.
	default:
		s.CurrentDT = s.CurrentDT.Add(s.step)
		if s.CurrentDT.After(s.StopDT) {
			if s.histChan != nil {
				close(s.histChan)
			}
			return true // Stop, we've reached the end of the simulation.
		}
	}
	return false
}

// GetState returns the integrator state, the thruster rotation speed.
func (s *Sim) GetState() []float64 {
	return []float64{s.Thruster.RPM()}
}

// SetState applies the integrated state and performs the per-frame motor
// update from the latest feedback.
func (s *Sim) SetState(t float64, state []float64) {
	s.Thruster.SetRPM(state[0])
	fb := ReadFeedback(s.Thruster)
	if s.rpmNoise != nil {
		fb.RPM += s.rpmNoise.Rand(nil)[0]
	}
	s.cmdPower = s.Motor.Update(s.throttle(s.CurrentDT), s.step.Seconds(), fb)
	if s.histChan != nil {
		s.histChan <- s.snapshot()
	}
}

// Func is the integration function of the thruster shaft speed under the
// power commanded at the last frame.
func (s *Sim) Func(t float64, state []float64) []float64 {
	return []float64{s.Thruster.Accel(s.cmdPower, state[0])}
}

func (s *Sim) snapshot() State {
	return State{s.CurrentDT, s.throttle(s.CurrentDT), s.Thruster.RPM(), s.Motor.LastCommand(), s.Thruster.PowerRequired()}
}

// State stores one simulation frame.
type State struct {
	DT       time.Time
	Throttle float64
	RPM      float64
	CmdPower float64 // watts
	PowerReq float64 // watts
}
