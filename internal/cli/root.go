// Package cli implements the gsm-inbox commands.
package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ftl/gsm-inbox/gnokii"
	"github.com/ftl/gsm-inbox/gsm"
	"github.com/ftl/gsm-inbox/sms"
)

// RootCmd is the top-level command.
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gsm-inbox",
		Short: "Read the SMS inbox of a phone through gnokii",
		Long: "gsm-inbox runs gnokii --getsms for every position of a memory bank, joins linked parts " +
			"into complete messages and prints them as JSON lines.",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("gnokii", gnokii.DefaultBinary, "Name or path of the gnokii executable ($GSM_INBOX_GNOKII)")
	flags.String("gnokii-config", "", "gnokiirc passed to gnokii ($GSM_INBOX_GNOKII_CONFIG)")
	flags.StringP("memory", "m", string(gsm.SIMMemory), "Memory type: SM, ME, MT, BM or SR ($GSM_INBOX_MEMORY)")
	flags.IntP("positions", "n", sms.DefaultPositions, "Number of memory positions to scan ($GSM_INBOX_POSITIONS)")
	flags.Duration("timeout", gnokii.DefaultTimeout, "Timeout of a single gnokii invocation ($GSM_INBOX_TIMEOUT)")
	flags.String("charset", "", "Charset of the gnokii output, e.g. CP1251 (default UTF-8) ($GSM_INBOX_CHARSET)")
	flags.Bool("trace", false, "Trace the gnokii invocations to stderr ($GSM_INBOX_TRACE)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error ($GSM_INBOX_LOG_LEVEL)")
	flags.String("log-format", "console", "Log format: console or json ($GSM_INBOX_LOG_FORMAT)")

	cmd.AddCommand(
		newScanCmd(),
		newGetCmd(),
		newWatchCmd(),
		newIdentifyCmd(),
		newPortsCmd(),
	)
	return cmd
}

// Device is the phone as seen through gnokii.
type Device interface {
	gsm.Runner
	Identify(ctx context.Context) (string, error)
}

// openDevice is replaced in tests.
var openDevice = func(config *Config, logger *zap.Logger, trace io.Writer) (Device, error) {
	gnokiiConfig := gnokii.Config{
		Binary:     config.Gnokii,
		ConfigFile: config.GnokiiConfig,
		Timeout:    config.Timeout,
		Charset:    config.Charset,
	}

	var command *gnokii.Command
	var err error
	if config.Trace {
		command, err = gnokii.NewWithTrace(gnokiiConfig, trace)
	} else {
		command, err = gnokii.New(gnokiiConfig)
	}
	if err != nil {
		return nil, err
	}
	return command.WithLogger(logger.Named("gnokii")), nil
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(cmd.Flags()))
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return config, nil
}

type session struct {
	config *Config
	logger *zap.Logger
	device Device
}

func openSession(cmd *cobra.Command) (*session, error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(config)
	if err != nil {
		return nil, err
	}
	device, err := openDevice(config, logger, cmd.ErrOrStderr())
	if err != nil {
		logger.Sync()
		return nil, errors.Wrap(err, "cannot set up gnokii")
	}
	return &session{
		config: config,
		logger: logger,
		device: device,
	}, nil
}

func (s *session) Close() {
	s.logger.Sync()
}

func (s *session) assembler() *sms.Assembler {
	return sms.NewAssembler(s.device, s.config.Memory).
		WithPositions(s.config.Positions).
		WithLogger(s.logger.Named("assembler"))
}
