package cli

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ftl/gsm-inbox/gnokii"
	"github.com/ftl/gsm-inbox/gsm"
	"github.com/ftl/gsm-inbox/serial"
	"github.com/ftl/gsm-inbox/sms"
)

const envPrefix = "GSM_INBOX_"

// Config holds the application configuration
type Config struct {
	// Gnokii is the name or path of the gnokii executable
	Gnokii string
	// GnokiiConfig is the gnokiirc passed to gnokii, empty for the default
	GnokiiConfig string
	// Memory is the memory type to read (SM, ME, MT, BM, SR)
	Memory gsm.MemoryType
	// Positions is the number of memory positions scanned, starting at 0
	Positions int
	// Timeout limits every single gnokii invocation
	Timeout time.Duration
	// Charset of the gnokii output, empty for UTF-8
	Charset string
	// Trace writes every gnokii invocation and its raw output to stderr
	Trace bool
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// LogFormat is either "console" or "json"
	LogFormat string
	// SerialPort is the port probed by the ports command, empty to use the detected modem
	SerialPort string
	// BaudRate is used to probe the serial port
	BaudRate int
	// Schedule is the cron expression of the watch command (e.g. "@every 1m")
	Schedule string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.Gnokii = gnokii.DefaultBinary
		c.Memory = gsm.SIMMemory
		c.Positions = sms.DefaultPositions
		c.Timeout = gnokii.DefaultTimeout
		c.LogLevel = "info"
		c.LogFormat = "console"
		c.BaudRate = serial.DefaultBaudRate
		c.Schedule = "@every 1m"
		return nil
	}
}

// WithEnv loads configuration from GSM_INBOX_* environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		for name := range settings {
			value, ok := os.LookupEnv(envPrefix + envName(name))
			if !ok || value == "" {
				continue
			}
			if err := c.set(name, value); err != nil {
				return errors.Wrapf(err, "environment variable %s%s", envPrefix, envName(name))
			}
		}
		return nil
	}
}

// WithFlags loads configuration from the command-line flags that were set explicitly
func WithFlags(fSet *pflag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *pflag.Flag) {
			if err != nil {
				return
			}
			if _, ok := settings[f.Name]; !ok {
				return
			}
			if setErr := c.set(f.Name, f.Value.String()); setErr != nil {
				err = errors.Wrapf(setErr, "flag --%s", f.Name)
			}
		})
		return err
	}
}

type setting func(c *Config, value string) error

// settings maps the flag names to their config fields. The environment variables use the same
// names in upper case with underscores.
var settings = map[string]setting{
	"gnokii": func(c *Config, value string) error {
		c.Gnokii = value
		return nil
	},
	"gnokii-config": func(c *Config, value string) error {
		c.GnokiiConfig = value
		return nil
	},
	"memory": func(c *Config, value string) error {
		memory, err := gsm.MemoryTypeByName(value)
		if err != nil {
			return err
		}
		c.Memory = memory
		return nil
	},
	"positions": func(c *Config, value string) error {
		positions, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if positions < 0 {
			return errors.Errorf("negative number of positions: %d", positions)
		}
		c.Positions = positions
		return nil
	},
	"timeout": func(c *Config, value string) error {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		c.Timeout = timeout
		return nil
	},
	"charset": func(c *Config, value string) error {
		if _, err := gsm.DecoderByName(value); err != nil {
			return err
		}
		c.Charset = value
		return nil
	},
	"trace": func(c *Config, value string) error {
		trace, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		c.Trace = trace
		return nil
	},
	"log-level": func(c *Config, value string) error {
		c.LogLevel = value
		return nil
	},
	"log-format": func(c *Config, value string) error {
		if value != "console" && value != "json" {
			return errors.Errorf("unknown log format %q", value)
		}
		c.LogFormat = value
		return nil
	},
	"serial-port": func(c *Config, value string) error {
		c.SerialPort = value
		return nil
	},
	"baud-rate": func(c *Config, value string) error {
		baudRate, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.BaudRate = baudRate
		return nil
	},
	"schedule": func(c *Config, value string) error {
		c.Schedule = value
		return nil
	},
}

func (c *Config) set(name string, value string) error {
	return settings[name](c, value)
}

func envName(flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
