package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ZeroAddress marks a contract source that is configured but not deployed.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Config holds worker configuration loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	RPCTimeout     time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	PollInterval   time.Duration
	StartOffset    uint64
	ErrorThreshold int
	DedupCap       int
	EscrowAddress  string
	OracleAddress  string
	JuryAddress    string
	PGDSN          string
	MetricsAddr    string
	StatsInterval  time.Duration
	LogLevel       string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ORACLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc-timeout", 30*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-delay", time.Second)
	v.SetDefault("poll-interval", time.Second)
	v.SetDefault("start-offset", uint64(5))
	v.SetDefault("error-threshold", 10)
	v.SetDefault("dedup-cap", 0)
	v.SetDefault("escrow-address", ZeroAddress)
	v.SetDefault("oracle-address", ZeroAddress)
	v.SetDefault("jury-address", ZeroAddress)
	v.SetDefault("stats-interval", 30*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:         v.GetString("rpc"),
		RPCTimeout:     v.GetDuration("rpc-timeout"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryDelay:     v.GetDuration("retry-delay"),
		PollInterval:   v.GetDuration("poll-interval"),
		StartOffset:    v.GetUint64("start-offset"),
		ErrorThreshold: v.GetInt("error-threshold"),
		DedupCap:       v.GetInt("dedup-cap"),
		EscrowAddress:  normalizeAddress(v.GetString("escrow-address")),
		OracleAddress:  normalizeAddress(v.GetString("oracle-address")),
		JuryAddress:    normalizeAddress(v.GetString("jury-address")),
		PGDSN:          v.GetString("pg-dsn"),
		MetricsAddr:    v.GetString("metrics-addr"),
		StatsInterval:  v.GetDuration("stats-interval"),
		LogLevel:       v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the settings the worker cannot start without. Contract
// addresses are not required: a zero-address source starts disabled.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be greater than zero")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be greater than zero")
	}
	if c.ErrorThreshold <= 0 {
		return fmt.Errorf("error threshold must be greater than zero")
	}
	return nil
}

func normalizeAddress(input string) string {
	input = strings.TrimSpace(strings.Trim(input, `'"`))
	if input == "" {
		return ZeroAddress
	}
	return input
}
