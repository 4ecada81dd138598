package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"veil/logx"
)

// SdkConfig is the static configuration one SDK session runs with.
type SdkConfig struct {
	ChainID         string `yaml:"chain_id"`
	RPCEndpoint     string `yaml:"rpc_endpoint"`
	ParamsStorePath string `yaml:"params_store_path"`
	GasToken        string `yaml:"gas_token"`
	GasLimit        uint64 `yaml:"gas_limit"`
}

type configFile struct {
	Config SdkConfig `yaml:"config"`
}

// LoadSdkConfig reads and parses a YAML config file.
func LoadSdkConfig(path string) (*SdkConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "failed to open config file: ", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile configFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "failed to decode YAML: ", err)
		return nil, err
	}
	cfg := cfgFile.Config
	if cfg.GasToken == "" {
		cfg.GasToken = DefaultGasToken
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultGasLimit
	}
	return &cfg, nil
}
