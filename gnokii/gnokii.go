package gnokii

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/ftl/gsm-inbox/gsm"
)

const (
	DefaultBinary  = "gnokii"
	DefaultTimeout = 30 * time.Second

	waitDelay = time.Second
)

// Config of the gnokii command.
type Config struct {
	// Binary is the name or path of the gnokii executable.
	Binary string
	// ConfigFile is passed with --config if set, otherwise gnokii uses its default gnokiirc.
	ConfigFile string
	// Timeout limits every single invocation.
	Timeout time.Duration
	// Charset of the command output, empty for UTF-8.
	Charset string
}

func (c *Config) setDefaults() {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Command runs gnokii as a subprocess. Only one invocation runs at a time, because the serial
// session to the phone cannot be shared.
type Command struct {
	config  Config
	decoder *encoding.Decoder
	tracer  io.Writer
	logger  *zap.Logger

	mu sync.Mutex
}

// New creates a new Command with the given configuration.
func New(config Config) (*Command, error) {
	config.setDefaults()
	decoder, err := gsm.DecoderByName(config.Charset)
	if err != nil {
		return nil, errors.Wrap(err, "gnokii output")
	}
	return &Command{
		config:  config,
		decoder: decoder,
		logger:  zap.NewNop(),
	}, nil
}

// NewWithTrace creates a new Command that traces all invocations and their output to the given writer.
func NewWithTrace(config Config, tracer io.Writer) (*Command, error) {
	result, err := New(config)
	if err != nil {
		return nil, err
	}
	result.tracer = tracer
	return result, nil
}

func (c *Command) WithLogger(logger *zap.Logger) *Command {
	c.logger = logger
	return c
}

// Run executes gnokii --getsms for the given memory position. A nonzero exit code is not an
// error, the error is only set if gnokii could not be run or did not finish in time.
func (c *Command) Run(ctx context.Context, memory gsm.MemoryType, position int) (int, string, error) {
	if !memory.Valid() {
		return -1, "", errors.Errorf("invalid memory type %q", memory)
	}
	return c.run(ctx, "--getsms", memory.String(), strconv.Itoa(position))
}

// Identify executes gnokii --identify and returns its output.
func (c *Command) Identify(ctx context.Context) (string, error) {
	exitCode, output, err := c.run(ctx, "--identify")
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		return output, errors.Errorf("gnokii --identify: exit code %d: %s", exitCode, strings.TrimSpace(output))
	}
	return output, nil
}

func (c *Command) args(args ...string) []string {
	if c.config.ConfigFile == "" {
		return args
	}
	return append([]string{"--config", c.config.ConfigFile}, args...)
}

func (c *Command) run(ctx context.Context, args ...string) (int, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return -1, "", err
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	fullArgs := c.args(args...)
	cmd := exec.CommandContext(ctx, c.config.Binary, fullArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	c.tracef("tx:  %s %s\n--\n", c.config.Binary, strings.Join(fullArgs, " "))
	started := time.Now()
	runErr := cmd.Run()

	output, err := c.decode(stdout.Bytes())
	if err != nil {
		return -1, "", errors.Wrap(err, "cannot decode gnokii output")
	}
	c.tracef("rx:  %s\n--\n", output)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			return -1, output, errors.Wrapf(ctx.Err(), "gnokii %s", strings.Join(args, " "))
		case errors.As(runErr, &exitErr):
			exitCode = exitErr.ExitCode()
			diagnostics, _ := c.decode(stderr.Bytes())
			output += diagnostics
			c.tracef("err: %s\n--\n", diagnostics)
		default:
			return -1, output, errors.Wrapf(runErr, "cannot run %s", c.config.Binary)
		}
	}

	c.logger.Debug("gnokii finished",
		zap.Strings("args", args),
		zap.Int("exit_code", exitCode),
		zap.Duration("duration", time.Since(started)),
	)
	return exitCode, output, nil
}

func (c *Command) decode(output []byte) (string, error) {
	if c.decoder == nil {
		return string(output), nil
	}
	decoded, err := c.decoder.Bytes(output)
	return string(decoded), err
}

func (c *Command) tracef(format string, args ...interface{}) {
	if c.tracer == nil {
		return
	}
	fmt.Fprintf(c.tracer, format, args...)
}

// IsEmptyLocation reports if the given output is gnokii's report of an empty memory location.
func IsEmptyLocation(output string) bool {
	return strings.Contains(strings.ToLower(output), "location is empty")
}
