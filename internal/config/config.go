package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type (
	// Config represents an application configuration.
	Config struct {
		// Subconfigs.
		HTTPServer HTTPServer `yaml:"http_server"`
		ATM        ATM        `yaml:"atm"`
		Throttle   Throttle   `yaml:"throttle"`
		Logger     Logger     `yaml:"logger"`
	}
	// Config for HTTP server.
	HTTPServer struct {
		// The server startup address.
		Address string `yaml:"run_address" env:"RUN_ADDRESS" env-default:"127.0.0.1:8080"`
		// Read Header Timeout in seconds.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout in seconds.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout in seconds.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	}
	// Config for the simulated account and its PIN.
	ATM struct {
		// Balance the account starts with.
		StartingBalance string `yaml:"starting_balance" env:"ATM_STARTING_BALANCE" env-default:"1000.00"`
		// PIN accepted by the session.
		PIN string `yaml:"pin" env:"ATM_PIN" env-default:"1234"`
		// Cost of the PIN hash. Must be between 4 and 31.
		PINHashCost int `yaml:"pin_hash_cost" env:"ATM_PIN_HASH_COST" env-default:"10"`
	}
	// Config for the PIN attempts throttle.
	Throttle struct {
		// One attempt is given back every interval. Zero disables throttling.
		Interval time.Duration `yaml:"interval" env:"THROTTLE_INTERVAL" env-default:"1s"`
		// Attempts allowed at once.
		Burst int `yaml:"burst" env:"THROTTLE_BURST" env-default:"5"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb" env-default:"10"`
		MaxBackups int `yaml:"max_backups" env-default:"3"`
		MaxAgeDays int `yaml:"max_age_days" env-default:"28"`
	}
)

// StartingBalance parses the configured starting balance.
func (c *Config) StartingBalance() (decimal.Decimal, error) {
	balance, err := decimal.NewFromString(c.ATM.StartingBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("starting balance %q: %w", c.ATM.StartingBalance, err)
	}
	if balance.IsNegative() {
		return decimal.Zero, fmt.Errorf("starting balance %q must not be negative", c.ATM.StartingBalance)
	}
	return balance, nil
}

// Validate checks the values cleanenv cannot check by itself.
func (c *Config) Validate() error {
	if _, err := c.StartingBalance(); err != nil {
		return err
	}
	if c.ATM.PIN == "" {
		return errors.New("pin must not be empty")
	}
	if len(c.ATM.PIN) > 72 {
		return errors.New("pin must not exceed 72 bytes")
	}
	if c.ATM.PINHashCost < 4 || c.ATM.PINHashCost > 31 {
		return fmt.Errorf("pin hash cost %d out of range [4, 31]", c.ATM.PINHashCost)
	}
	if c.Throttle.Burst < 1 {
		return fmt.Errorf("throttle burst %d must be positive", c.Throttle.Burst)
	}
	return nil
}

// Load returns an application configuration which is populated
// from the given configuration file, command line arguments and
// environment variables, in that order of precedence from lowest.
// A missing configuration file is not an error.
func Load(configPath string, args []string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); err == nil {
		if err = cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
		// Fill in defaults.
		if err = cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
	}

	// Read given flags.
	flags := []stringFlag{
		{name: "a", env: "RUN_ADDRESS", dst: &cfg.HTTPServer.Address, usage: "server startup address"},
		{name: "b", env: "ATM_STARTING_BALANCE", dst: &cfg.ATM.StartingBalance, usage: "starting balance of the account"},
		{name: "p", env: "ATM_PIN", dst: &cfg.ATM.PIN, usage: "pin accepted by the session"},
	}
	fs := flag.NewFlagSet("atm", flag.ContinueOnError)
	fs.String("config", configPath, "path to the config file")
	for _, f := range flags {
		fs.StringVar(f.dst, f.name, *f.dst, f.usage)
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })

	// Read environment variables.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	// Defaults must not replace a value given explicitly, even an empty one.
	for _, f := range flags {
		value, ok := explicit[f.name]
		if _, inEnv := os.LookupEnv(f.env); ok && !inEnv {
			*f.dst = value
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadArgs loads the configuration from command line arguments,
// taking the config file path from the -config flag.
func LoadArgs(args []string) (*Config, error) {
	return Load(configPathFromArgs(args), args)
}

// MustLoad loads the configuration for the running binary
// and exits the process on failure.
func MustLoad() *Config {
	cfg, err := LoadArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

type stringFlag struct {
	name  string
	env   string
	dst   *string
	usage string
}

func configPathFromArgs(args []string) string {
	path := "./config/local.yml"
	for i, arg := range args {
		switch {
		case (arg == "-config" || arg == "--config") && i+1 < len(args):
			path = args[i+1]
		case len(arg) > 8 && arg[:8] == "-config=":
			path = arg[8:]
		case len(arg) > 9 && arg[:9] == "--config=":
			path = arg[9:]
		}
	}
	return path
}
