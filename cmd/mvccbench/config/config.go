// Package config loads mvccbench's run parameters the way cabbageDB's
// main.go loads its server Config: viper reads a file into a
// mapstructure-tagged struct seeded with defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds one benchmark run's parameters, corresponding to the
// n, m, numTrans, constVal, numIters, lambda, readRatio record original_source's
// SI-run.cc / SI-SSN-run.cc read from inp-params.txt.
type Config struct {
	Protocol      string  `json:"protocol" mapstructure:"protocol"` // "si" or "ssn"
	NumThreads    int     `json:"num_threads" mapstructure:"num_threads"`
	NumItems      int     `json:"num_items" mapstructure:"num_items"`
	NumTrans      int     `json:"num_trans" mapstructure:"num_trans"`
	ConstVal      int64   `json:"const_val" mapstructure:"const_val"`
	NumIters      int     `json:"num_iters" mapstructure:"num_iters"`
	LambdaSleepMs float64 `json:"lambda_sleep_ms" mapstructure:"lambda_sleep_ms"`
	ReadRatio     float64 `json:"read_ratio" mapstructure:"read_ratio"` // SSN only
	LogLevel      string  `json:"log_level" mapstructure:"log_level"`
}

// DefaultConfig mirrors cabbageDB's DefaultConfig: a complete, runnable
// configuration used both as the viper unmarshal target and as the
// fallback when no config file is supplied.
func DefaultConfig() *Config {
	return &Config{
		Protocol:      "ssn",
		NumThreads:    4,
		NumItems:      16,
		NumTrans:      50,
		ConstVal:      100,
		NumIters:      4,
		LambdaSleepMs: 5,
		ReadRatio:     0.7,
		LogLevel:      "info",
	}
}

// Load reads configFile via viper into a Config seeded with defaults. A
// missing or unreadable file is not fatal: it leaves the defaults in
// place, matching cabbageDB's LoadConfig fallback-on-error behavior.
func Load(configFile string) *Config {
	cfg := DefaultConfig()
	if configFile == "" {
		return cfg
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("mvccbench: could not read config %q, using defaults: %v\n", configFile, err)
		return cfg
	}
	if err := v.Unmarshal(cfg); err != nil {
		fmt.Printf("mvccbench: could not parse config %q, using defaults: %v\n", configFile, err)
		return DefaultConfig()
	}
	return cfg
}
