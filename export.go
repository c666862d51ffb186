package emd

import (
	"fmt"
	"os"
	"time"
)

// createCSVFile returns a file which requires a defer close statement!
func createCSVFile(filename string, conf ExportConfig, startDT time.Time) *os.File {
	config := emdConfig()
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/motor-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", config.outputDir, filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/motor-%s.csv", config.outputDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are time, throttle, rpm, cmdPowerW, cmdPowerHP, powerReqW
#   Power in watts (W) and mechanical horsepower (HP)
#   Simulation time start (UTC): %s
time,throttle,rpm,cmdPowerW,cmdPowerHP,powerReqW`, time.Now(), startDT.UTC()))
	if conf.CSVAppendHdr != nil {
		// Append the headers for the appended columns.
		f.WriteString("," + conf.CSVAppendHdr())
	}
	return f
}

// StreamStates streams the output of the channel to the configured CSV file.
func StreamStates(conf ExportConfig, stateChan <-chan (State)) {
	var f *os.File
	var lastDT time.Time
	for state := range stateChan {
		if !conf.AsCSV {
			continue
		}
		if f == nil {
			f = createCSVFile(conf.Filename, conf, state.DT)
		}
		asTxt := fmt.Sprintf("%s,%.4f,%.3f,%.3f,%.6f,%.3f", state.DT.UTC().Format("2006-01-02 15:04:05.000"), state.Throttle, state.RPM, state.CmdPower, Watts2HP(state.CmdPower), state.PowerReq)
		if conf.CSVAppend != nil {
			asTxt += "," + conf.CSVAppend(state)
		}
		if _, err := f.WriteString("\n" + asTxt); err != nil {
			panic(err)
		}
		lastDT = state.DT
	}
	// The channel is closed, hence the simulation is over.
	if f != nil {
		f.WriteString(fmt.Sprintf("\n# Simulation time end (UTC): %s\n", lastDT.UTC()))
		f.Close()
	}
}

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Filename     string
	AsCSV        bool
	Timestamp    bool
	CSVAppend    func(st State) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string         // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}
