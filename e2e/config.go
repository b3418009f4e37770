package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_ADDR points the scenario at an already-running relay;
	// the suite is skipped when it is unset.
	ServerAddr string `envconfig:"E2E_SERVER_ADDR"`
	// E2E_DEBUG_WIRE dumps every line sent and received
	DebugWire bool `envconfig:"E2E_DEBUG_WIRE" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
