// Package config provides environment-driven tuning knobs for callers that
// wire up the scheduling core. The core itself reads no configuration and
// has no on-disk layout — this package is an ambient convenience for
// embedding applications, not part of the scheduler's tested contract.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ygjlovebl/sawtooth-core/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config holds the tunables an embedding application may want to adjust
// without recompiling the core.
type Config struct {
	Scheduler struct {
		// TokenSize is the predecessor tree's address token width, in hex
		// characters. Defaults to 2 (hex-byte granularity).
		TokenSize int `mapstructure:"token_size" json:"token_size"`
	} `mapstructure:"scheduler" json:"scheduler"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`
}

// Load reads configuration from the environment, under the SCHED_ prefix
// (e.g. SCHED_SCHEDULER_TOKEN_SIZE), falling back to defaults when unset.
// No config file is required; the scheduling core imposes no on-disk
// layout.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("scheduler.token_size", 2)
	v.SetDefault("logging.level", "info")
	v.SetEnvPrefix("SCHED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}
