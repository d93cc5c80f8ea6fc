package config

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ConfigFlagName = "config"
	EnvFlagName    = "env"
)

// BindFlags registers the configuration flags shared by every subcommand.
func BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(ConfigFlagName, "config.yaml", "path to the dataworker configuration file")
	_ = viper.BindPFlag(ConfigFlagName, cmd.PersistentFlags().Lookup(ConfigFlagName))

	cmd.PersistentFlags().String(EnvFlagName, "", "env var prefix to read configuration from; layered over the config file when one is present")
	_ = viper.BindPFlag(EnvFlagName, cmd.PersistentFlags().Lookup(EnvFlagName))
}

// OverridesConfig replaces the constructor's optional Dataworker overrides
// with an explicit, decodable record.
type OverridesConfig struct {
	MaxRefundCount     *uint32           `mapstructure:"maxRefundCount"`
	MaxL1TokenCount    *uint32           `mapstructure:"maxL1TokenCount"`
	TransferThresholds map[string]string `mapstructure:"transferThresholds"`
}

// Config is the root configuration record. ChainConfigs stays as raw maps
// because only the chain-type-specific package (currently just evm) knows
// how to decode its own shape.
type Config struct {
	LogLevel             string                   `mapstructure:"logLevel" default:"info"`
	HealthPort           uint16                   `mapstructure:"healthPort" default:"8080"`
	CycleIntervalSeconds uint64                   `mapstructure:"cycleIntervalSeconds" default:"60"`
	ChainConfigs         []map[string]interface{} `mapstructure:"chains"`
	Overrides            OverridesConfig          `mapstructure:"overrides"`
}

func (c *Config) Validate() error {
	if len(c.ChainConfigs) == 0 {
		return fmt.Errorf("no chains configured")
	}
	return nil
}

// GetConfigFromFile reads and decodes the configuration file named by the
// config flag.
func GetConfigFromFile() (*Config, error) {
	viper.SetConfigFile(viper.GetString(ConfigFlagName))
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return decode(viper.AllSettings())
}

// GetConfigFromEnv decodes configuration from environment variables read
// under the prefix named by the env flag.
func GetConfigFromEnv() (*Config, error) {
	prefix := viper.GetString(EnvFlagName)
	viper.SetEnvPrefix(prefix)
	viper.AutomaticEnv()
	return decode(viper.AllSettings())
}

// MergeOverride layers other onto c, field by field, with other's non-zero
// values winning. Used to let an env-var override config win over a base
// file config without requiring the env config to repeat every field.
func (c *Config) MergeOverride(other *Config) error {
	return mergo.Merge(c, other, mergo.WithOverride)
}

func decode(raw map[string]interface{}) (*Config, error) {
	var c Config
	if err := mapstructure.Decode(raw, &c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
