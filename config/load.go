package config

import (
	"github.com/BurntSushi/toml"
)

// LoadEconomyConfigs overrides the default economy tuning with the values
// found in the given TOML file. An empty path keeps the defaults.
func LoadEconomyConfigs(path string) (EconomyConfigs, error) {
	configs := DefaultEconomyConfigs()
	if path == "" {
		return configs, nil
	}

	if _, err := toml.DecodeFile(path, &configs); err != nil {
		return EconomyConfigs{}, err
	}

	return configs, nil
}
