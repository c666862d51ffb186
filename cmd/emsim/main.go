package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/rega0051/emd"
	"github.com/spf13/viper"
)

// This code effectively only reads the scenario file and runs the simulation.

const (
	defaultScenario = "~~unset~~"
)

var (
	scenario string
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "motor run scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	// Load scenario
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	// Read engine parameters. Power may be given directly in watts, or in
	// horsepower which takes precedence when set.
	name := viper.GetString("engine.name")
	cfg := emd.MotorConfig{
		MaxPower: viper.GetFloat64("engine.power"),
		MaxRPM:   viper.GetFloat64("engine.maxrpm"),
		Tau:      viper.GetFloat64("engine.tau"),
	}
	if hp := viper.GetFloat64("engine.powerHP"); hp > 0 {
		cfg.MaxPower = emd.HP2Watts(hp)
	}
	if verbose {
		log.Printf("[conf] engine %s: %s mode, max power %.1f W, tau %.3f s\n", name, cfg.Mode(), cfg.MaxPower, cfg.Tau)
	}

	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))

	motor, err := emd.NewMotor(name, cfg, klog)
	if err != nil {
		log.Fatalf("engine `%s`: %s", name, err)
	}

	// Read propeller parameters.
	prop := emd.NewFixedPitchProp(viper.GetString("prop.name"),
		viper.GetFloat64("prop.kq"), viper.GetFloat64("prop.inertia"),
		viper.GetFloat64("prop.gear"), viper.GetFloat64("prop.rpm0"))

	// Read run parameters.
	duration := viper.GetDuration("run.duration")
	step := viper.GetDuration("run.step")
	throttle := viper.GetFloat64("run.throttle")
	rpmNoise := viper.GetFloat64("run.rpmNoise")
	if verbose {
		log.Printf("[conf] run: %s at throttle %.2f, step %s\n", duration, throttle, step)
	}

	conf := emd.ExportConfig{Filename: name, AsCSV: true, Timestamp: viper.GetBool("run.timestamp")}
	sim, err := emd.NewSim(motor, prop, time.Now(), duration, step, emd.ConstantThrottle(throttle), rpmNoise, conf, klog)
	if err != nil {
		log.Fatalf("sim: %s", err)
	}
	sim.Run()
}
