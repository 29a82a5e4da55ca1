package main

import (
	"os"

	"gopkg.in/yaml.v2"
)

// runConfig is the yaml-loaded genesis/execution fixture for one evmrun
// invocation: the fork to execute under, the code and calldata to run, and
// the starting balance of the caller.
type runConfig struct {
	Fork        string `yaml:"fork"`
	Code        string `yaml:"code"`  // hex, "0x"-prefixed or bare
	Input       string `yaml:"input"` // hex calldata
	Gas         uint64 `yaml:"gas"`
	Value       string `yaml:"value"` // decimal
	Address     string `yaml:"address"`
	Caller      string `yaml:"caller"`
	Balance     string `yaml:"balance"` // decimal, caller's starting balance
	BlockNumber uint64 `yaml:"blockNumber"`
	Timestamp   uint64 `yaml:"timestamp"`
	GasLimit    uint64 `yaml:"gasLimit"`
	BaseFee     string `yaml:"baseFee"`
}

func loadConfig(path string) (*runConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg runConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
