package emd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _emdconfig{}
)

// _emdconfig is a "hidden" struct, just use `emdConfig`
type _emdconfig struct {
	outputDir string
}

// emdConfig returns the emd configuration.
func emdConfig() _emdconfig {
	if cfgLoaded {
		return config
	}
	// Load the configuration file. Without one, exports land in the working
	// directory.
	confPath := os.Getenv("EMD_CONFIG")
	if confPath == "" {
		config = _emdconfig{outputDir: "."}
		cfgLoaded = true
		return config
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	outputDir := viper.GetString("general.output_path")
	if outputDir == "" {
		outputDir = "."
	}
	cfgLoaded = true
	config = _emdconfig{outputDir: outputDir}
	return config
}
