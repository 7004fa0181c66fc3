// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sprintertech/sprinter-bridge/config/chain"
	"github.com/sprintertech/sprinter-bridge/coordinator"
	"github.com/sprintertech/sprinter-bridge/fee"
)

const (
	ConfigFlagName = "config"
	StoreFlagName  = "store"

	ENV_PREFIX = "BRIDGE"
)

const (
	StoreMemory = "memory"
	StoreLvlDB  = "lvldb"
	StoreRedis  = "redis"
)

const (
	SelectionRoundRobin = "roundrobin"
	SelectionRandom     = "random"
)

func BindFlags(rootCMD *cobra.Command) {
	rootCMD.PersistentFlags().String(ConfigFlagName, "", "Path to JSON or YAML configuration file, or 'env' to load configuration from the environment")
	_ = viper.BindPFlag(ConfigFlagName, rootCMD.PersistentFlags().Lookup(ConfigFlagName))

	rootCMD.PersistentFlags().String(StoreFlagName, "", "Path to the LevelDB transfer store. Overrides the configured store path")
	_ = viper.BindPFlag(StoreFlagName, rootCMD.PersistentFlags().Lookup(StoreFlagName))
}

type Config struct {
	BridgeConfig BridgeConfig
	ChainConfigs []chain.ChainConfig

	raw RawConfig
}

type BridgeConfig struct {
	Id                        string
	Env                       string `default:"local"`
	LogLevel                  string `default:"info"`
	ApiAddr                   string `default:":3000"`
	HealthPort                uint16 `default:"9001"`
	OpenTelemetryCollectorURL string
	Store                     StoreConfig

	Validators       []string
	Relayers         []string
	Threshold        int
	RelayerSelection string `default:"roundrobin"`

	AttestationTimeout  time.Duration `default:"60s"`
	SolicitationTimeout time.Duration `default:"10s"`
	SubmitTimeout       time.Duration `default:"30s"`
	ExecuteTimeout      time.Duration `default:"30s"`
	HealthInterval      time.Duration `default:"30s"`
	RelayConcurrency    int           `default:"4"`
	EventBuffer         int           `default:"64"`

	Fees       fee.Schedule
	Simulation SimulationConfig
}

type StoreConfig struct {
	Type      string `default:"memory"`
	Path      string `default:"./lvldbdata"`
	RedisAddr string `default:"localhost:6379"`
}

func (c *StoreConfig) ParseFlags() {
	store := viper.GetString(StoreFlagName)
	if store != "" {
		c.Path = store
	}
}

type SimulationConfig struct {
	ValidatorLatency   time.Duration `default:"200ms"`
	ValidatorDropRate  float64
	RelayLatency       time.Duration `default:"500ms"`
	SubmitFailureRate  float64
	ExecuteFailureRate float64
	GasUsed            uint64 `default:"21000"`
}

type RawConfig struct {
	BridgeConfig RawBridgeConfig          `mapstructure:"bridge" json:"bridge"`
	ChainConfigs []map[string]interface{} `mapstructure:"chains" json:"chains"`
}

type RawBridgeConfig struct {
	Id                        string         `mapstructure:"id" json:"id"`
	Env                       string         `mapstructure:"env" json:"env"`
	LogLevel                  string         `mapstructure:"logLevel" json:"logLevel" split_words:"true"`
	ApiAddr                   string         `mapstructure:"apiAddr" json:"apiAddr" split_words:"true"`
	HealthPort                uint16         `mapstructure:"healthPort" json:"healthPort" split_words:"true"`
	OpenTelemetryCollectorURL string         `mapstructure:"openTelemetryCollectorURL" json:"openTelemetryCollectorURL" envconfig:"OPEN_TELEMETRY_COLLECTOR_URL"`
	Store                     RawStoreConfig `mapstructure:"store" json:"store"`

	Validators       []string `mapstructure:"validators" json:"validators"`
	Relayers         []string `mapstructure:"relayers" json:"relayers"`
	Threshold        int      `mapstructure:"threshold" json:"threshold"`
	RelayerSelection string   `mapstructure:"relayerSelection" json:"relayerSelection" split_words:"true"`

	// timeouts and intervals in seconds
	AttestationTimeout  uint64 `mapstructure:"attestationTimeout" json:"attestationTimeout" split_words:"true"`
	SolicitationTimeout uint64 `mapstructure:"solicitationTimeout" json:"solicitationTimeout" split_words:"true"`
	SubmitTimeout       uint64 `mapstructure:"submitTimeout" json:"submitTimeout" split_words:"true"`
	ExecuteTimeout      uint64 `mapstructure:"executeTimeout" json:"executeTimeout" split_words:"true"`
	HealthInterval      uint64 `mapstructure:"healthInterval" json:"healthInterval" split_words:"true"`
	RelayConcurrency    int    `mapstructure:"relayConcurrency" json:"relayConcurrency" split_words:"true"`
	EventBuffer         int    `mapstructure:"eventBuffer" json:"eventBuffer" split_words:"true"`

	Fee RawFeeConfig `mapstructure:"fee" json:"fee"`
	// target chain -> fee
	FeeOverrides map[string]RawFeeConfig `mapstructure:"feeOverrides" json:"feeOverrides" ignored:"true"`
	Simulation   RawSimulationConfig     `mapstructure:"simulation" json:"simulation"`
}

type RawStoreConfig struct {
	Type      string `mapstructure:"type" json:"type"`
	Path      string `mapstructure:"path" json:"path"`
	RedisAddr string `mapstructure:"redisAddr" json:"redisAddr" split_words:"true"`
}

type RawSimulationConfig struct {
	// latencies in milliseconds
	ValidatorLatency   uint64  `mapstructure:"validatorLatency" json:"validatorLatency" split_words:"true"`
	ValidatorDropRate  float64 `mapstructure:"validatorDropRate" json:"validatorDropRate" split_words:"true"`
	RelayLatency       uint64  `mapstructure:"relayLatency" json:"relayLatency" split_words:"true"`
	SubmitFailureRate  float64 `mapstructure:"submitFailureRate" json:"submitFailureRate" split_words:"true"`
	ExecuteFailureRate float64 `mapstructure:"executeFailureRate" json:"executeFailureRate" split_words:"true"`
	GasUsed            uint64  `mapstructure:"gasUsed" json:"gasUsed" split_words:"true"`
}

// Load resolves the bridge configuration from the shared network config, if a
// URL is given, overlaid by the file at path or by the environment when path is "env"
func Load(path string, sharedURL string) (*Config, error) {
	var shared *Config
	var err error
	if sharedURL != "" {
		shared, err = GetSharedConfigFromNetwork(sharedURL)
		if err != nil {
			return nil, err
		}
	}

	if strings.ToLower(path) == "env" {
		return GetConfigFromENV(shared)
	}
	return GetConfigFromFile(path, shared)
}

// GetConfigFromENV reads config from the environment, merges it over the
// shared config if provided, validates it and returns it
func GetConfigFromENV(config *Config) (*Config, error) {
	rawConfig, err := loadFromEnv()
	if err != nil {
		return nil, err
	}

	return processRawConfig(rawConfig, config)
}

// GetConfigFromFile reads config from a JSON or YAML file, merges it over the
// shared config if provided, validates it and returns it
func GetConfigFromFile(path string, config *Config) (*Config, error) {
	rawConfig := RawConfig{}
	if path == "" {
		if config == nil {
			return nil, fmt.Errorf("no configuration source provided")
		}
		return processRawConfig(rawConfig, config)
	}

	v := viper.New()
	v.SetConfigFile(path)
	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&rawConfig)
	if err != nil {
		return nil, err
	}

	return processRawConfig(rawConfig, config)
}

// GetSharedConfigFromNetwork fetches the shared JSON configuration that file or
// environment configuration is merged over. It is not validated on its own.
func GetSharedConfigFromNetwork(url string) (*Config, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed fetching shared config from %s: status %d", url, resp.StatusCode)
	}

	rawConfig := RawConfig{}
	err = json.NewDecoder(resp.Body).Decode(&rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed decoding shared config: %w", err)
	}

	return &Config{
		raw: rawConfig,
	}, nil
}

// CoordinatorConfig converts the loaded configuration into the coordinator's
// runtime configuration
func (c *Config) CoordinatorConfig() coordinator.Config {
	gasCeilings := make(map[string]uint64, len(c.ChainConfigs))
	delays := make(map[string]time.Duration, len(c.ChainConfigs))
	for _, chainConfig := range c.ChainConfigs {
		gasCeilings[chainConfig.Name] = chainConfig.GasCeiling
		delays[chainConfig.Name] = chainConfig.ConfirmationDelay()
	}

	return coordinator.Config{
		Validators:          c.BridgeConfig.Validators,
		Relayers:            c.BridgeConfig.Relayers,
		Threshold:           c.BridgeConfig.Threshold,
		GasCeilings:         gasCeilings,
		ConfirmationDelays:  delays,
		Fees:                c.BridgeConfig.Fees,
		AttestationTimeout:  c.BridgeConfig.AttestationTimeout,
		SolicitationTimeout: c.BridgeConfig.SolicitationTimeout,
		SubmitTimeout:       c.BridgeConfig.SubmitTimeout,
		ExecuteTimeout:      c.BridgeConfig.ExecuteTimeout,
		RelayConcurrency:    c.BridgeConfig.RelayConcurrency,
		HealthInterval:      c.BridgeConfig.HealthInterval,
	}
}

func (c *Config) Validate() error {
	b := c.BridgeConfig
	switch b.Store.Type {
	case StoreMemory, StoreLvlDB, StoreRedis:
	default:
		return fmt.Errorf("unsupported store type '%s'", b.Store.Type)
	}
	switch b.RelayerSelection {
	case SelectionRoundRobin, SelectionRandom:
	default:
		return fmt.Errorf("unsupported relayer selection '%s'", b.RelayerSelection)
	}
	if len(b.Relayers) == 0 {
		return fmt.Errorf("required field bridge.Relayers empty")
	}
	if b.RelayConcurrency < 1 {
		return fmt.Errorf("relay concurrency must be at least 1")
	}
	if b.EventBuffer < 1 {
		return fmt.Errorf("event buffer must be at least 1")
	}
	for name, rate := range map[string]float64{
		"validatorDropRate":  b.Simulation.ValidatorDropRate,
		"submitFailureRate":  b.Simulation.SubmitFailureRate,
		"executeFailureRate": b.Simulation.ExecuteFailureRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("simulation %s %v not in [0, 1]", name, rate)
		}
	}

	names := make(map[string]struct{}, len(c.ChainConfigs))
	for _, chainConfig := range c.ChainConfigs {
		if _, ok := names[chainConfig.Name]; ok {
			return fmt.Errorf("duplicate chain '%s'", chainConfig.Name)
		}
		names[chainConfig.Name] = struct{}{}
	}
	for target := range b.Fees.Overrides {
		if _, ok := names[target]; !ok {
			return fmt.Errorf("fee override for unsupported chain '%s'", target)
		}
	}

	coordinatorConfig := c.CoordinatorConfig()
	return coordinatorConfig.Validate()
}

func loadFromEnv() (RawConfig, error) {
	rawConfig := RawConfig{}
	err := envconfig.Process(ENV_PREFIX, &rawConfig.BridgeConfig)
	if err != nil {
		return rawConfig, err
	}

	chains := os.Getenv(fmt.Sprintf("%s_CHAINS", ENV_PREFIX))
	if chains != "" {
		err = json.Unmarshal([]byte(chains), &rawConfig.ChainConfigs)
		if err != nil {
			return rawConfig, fmt.Errorf("failed decoding %s_CHAINS: %w", ENV_PREFIX, err)
		}
	}
	return rawConfig, nil
}

func processRawConfig(rawConfig RawConfig, config *Config) (*Config, error) {
	if config != nil {
		merged := config.raw
		err := mergo.Merge(&merged, rawConfig, mergo.WithOverride)
		if err != nil {
			return nil, err
		}
		rawConfig = merged
	}

	chainConfigs := make([]chain.ChainConfig, len(rawConfig.ChainConfigs))
	for i, rawChain := range rawConfig.ChainConfigs {
		chainConfig, err := chain.NewChainConfig(rawChain)
		if err != nil {
			return nil, fmt.Errorf("invalid config for chain %d: %w", i, err)
		}
		chainConfigs[i] = *chainConfig
	}

	bridgeConfig, err := newBridgeConfig(rawConfig.BridgeConfig)
	if err != nil {
		return nil, err
	}

	c := &Config{
		BridgeConfig: bridgeConfig,
		ChainConfigs: chainConfigs,
		raw:          rawConfig,
	}
	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newBridgeConfig(raw RawBridgeConfig) (BridgeConfig, error) {
	// nolint:gosec
	c := BridgeConfig{
		Id:                        raw.Id,
		Env:                       raw.Env,
		LogLevel:                  raw.LogLevel,
		ApiAddr:                   raw.ApiAddr,
		HealthPort:                raw.HealthPort,
		OpenTelemetryCollectorURL: raw.OpenTelemetryCollectorURL,
		Store: StoreConfig{
			Type:      raw.Store.Type,
			Path:      raw.Store.Path,
			RedisAddr: raw.Store.RedisAddr,
		},
		Validators:          raw.Validators,
		Relayers:            raw.Relayers,
		Threshold:           raw.Threshold,
		RelayerSelection:    raw.RelayerSelection,
		AttestationTimeout:  time.Duration(raw.AttestationTimeout) * time.Second,
		SolicitationTimeout: time.Duration(raw.SolicitationTimeout) * time.Second,
		SubmitTimeout:       time.Duration(raw.SubmitTimeout) * time.Second,
		ExecuteTimeout:      time.Duration(raw.ExecuteTimeout) * time.Second,
		HealthInterval:      time.Duration(raw.HealthInterval) * time.Second,
		RelayConcurrency:    raw.RelayConcurrency,
		EventBuffer:         raw.EventBuffer,
		Simulation: SimulationConfig{
			ValidatorLatency:   time.Duration(raw.Simulation.ValidatorLatency) * time.Millisecond,
			ValidatorDropRate:  raw.Simulation.ValidatorDropRate,
			RelayLatency:       time.Duration(raw.Simulation.RelayLatency) * time.Millisecond,
			SubmitFailureRate:  raw.Simulation.SubmitFailureRate,
			ExecuteFailureRate: raw.Simulation.ExecuteFailureRate,
			GasUsed:            raw.Simulation.GasUsed,
		},
	}
	err := defaults.Set(&c)
	if err != nil {
		return c, err
	}
	c.Store.ParseFlags()

	fees, err := newFeeSchedule(raw.Fee, raw.FeeOverrides)
	if err != nil {
		return c, err
	}
	c.Fees = fees
	return c, nil
}
