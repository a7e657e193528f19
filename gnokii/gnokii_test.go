//go:build !windows

package gnokii

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/gsm-inbox/gsm"
)

func fakeGnokii(t *testing.T, script string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "gnokii")
	err := os.WriteFile(filename, []byte("#!/bin/sh\n"+script+"\n"), 0o755)
	require.NoError(t, err)
	return filename
}

func TestCommand_Run(t *testing.T) {
	tt := []struct {
		desc             string
		script           string
		configFile       string
		expectedExitCode int
		expectedOutput   string
	}{
		{
			desc:           "arguments",
			script:         `echo "$@"`,
			expectedOutput: "--getsms SM 3\n",
		},
		{
			desc:           "config file",
			script:         `echo "$@"`,
			configFile:     "/etc/gnokiirc",
			expectedOutput: "--config /etc/gnokiirc --getsms SM 3\n",
		},
		{
			desc:             "exit code with diagnostics",
			script:           `echo "GNOKII Version 0.6.31"; echo "GetSMS SM 3 failed! (The given location is empty.)" >&2; exit 11`,
			expectedExitCode: 11,
			expectedOutput:   "GNOKII Version 0.6.31\nGetSMS SM 3 failed! (The given location is empty.)\n",
		},
		{
			desc:           "diagnostics ignored on success",
			script:         `echo "hello"; echo "noise" >&2`,
			expectedOutput: "hello\n",
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			command, err := New(Config{Binary: fakeGnokii(t, tc.script), ConfigFile: tc.configFile})
			require.NoError(t, err)

			exitCode, output, err := command.Run(context.Background(), gsm.SIMMemory, 3)

			require.NoError(t, err)
			assert.Equal(t, tc.expectedExitCode, exitCode)
			assert.Equal(t, tc.expectedOutput, output)
		})
	}
}

func TestCommand_Run_InvalidMemory(t *testing.T) {
	command, err := New(Config{Binary: fakeGnokii(t, "exit 0")})
	require.NoError(t, err)

	_, _, err = command.Run(context.Background(), gsm.MemoryType("XX"), 1)

	assert.Error(t, err)
}

func TestCommand_Run_Timeout(t *testing.T) {
	command, err := New(Config{Binary: fakeGnokii(t, "exec sleep 5"), Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	started := time.Now()
	_, _, err = command.Run(context.Background(), gsm.SIMMemory, 1)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 4*time.Second)
}

func TestCommand_Run_Cancelled(t *testing.T) {
	command, err := New(Config{Binary: fakeGnokii(t, "exit 0")})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = command.Run(ctx, gsm.SIMMemory, 1)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommand_Run_MissingBinary(t *testing.T) {
	command, err := New(Config{Binary: filepath.Join(t.TempDir(), "does-not-exist")})
	require.NoError(t, err)

	exitCode, _, err := command.Run(context.Background(), gsm.SIMMemory, 1)

	assert.Error(t, err)
	assert.Equal(t, -1, exitCode)
}

func TestCommand_Run_Charset(t *testing.T) {
	command, err := New(Config{Binary: fakeGnokii(t, `printf '\317\360\350\342\345\362'`), Charset: "CP1251"})
	require.NoError(t, err)

	_, output, err := command.Run(context.Background(), gsm.SIMMemory, 1)

	require.NoError(t, err)
	assert.Equal(t, "Привет", output)
}

func TestNew_UnknownCharset(t *testing.T) {
	_, err := New(Config{Charset: "EBCDIC"})

	assert.Error(t, err)
}

func TestCommand_Trace(t *testing.T) {
	trace := new(bytes.Buffer)
	binary := fakeGnokii(t, `echo "hello"`)
	command, err := NewWithTrace(Config{Binary: binary}, trace)
	require.NoError(t, err)

	_, _, err = command.Run(context.Background(), gsm.PhoneMemory, 7)

	require.NoError(t, err)
	assert.Equal(t, "tx:  "+binary+" --getsms ME 7\n--\nrx:  hello\n\n--\n", trace.String())
}

func TestCommand_Identify(t *testing.T) {
	command, err := New(Config{Binary: fakeGnokii(t, `[ "$1" = "--identify" ] || exit 2; echo "IMEI         : 356938035643809"`)})
	require.NoError(t, err)

	output, err := command.Identify(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "IMEI         : 356938035643809\n", output)

	failing, err := New(Config{Binary: fakeGnokii(t, `echo "no phone" >&2; exit 1`)})
	require.NoError(t, err)

	_, err = failing.Identify(context.Background())

	assert.Error(t, err)
}

func TestIsEmptyLocation(t *testing.T) {
	assert.True(t, IsEmptyLocation("GetSMS SM 3 failed! (The given location is empty.)\n"))
	assert.True(t, IsEmptyLocation("GetSMS SM 3 failed! (The given Location is empty.)"))
	assert.False(t, IsEmptyLocation("GetSMS SM 3 failed! (Command timed out.)"))
	assert.False(t, IsEmptyLocation(""))
}
