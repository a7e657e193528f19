package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ftl/gsm-inbox/gnokii"
	"github.com/ftl/gsm-inbox/gsm"
	"github.com/ftl/gsm-inbox/sms"
)

func decodeEvents(t *testing.T, out string) []map[string]any {
	t.Helper()
	var result []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		event := make(map[string]any)
		require.NoError(t, json.Unmarshal([]byte(line), &event))
		result = append(result, event)
	}
	return result
}

func TestWatcher_Scan(t *testing.T) {
	device := gnokii.NewInMemory()
	prepareInbox(device, gsm.SIMMemory)
	out := new(bytes.Buffer)
	w := newWatcher(sms.NewAssembler(device, gsm.SIMMemory).WithPositions(6), out, zap.NewNop())

	require.NoError(t, w.Scan(context.Background()))
	first := decodeEvents(t, out.String())
	require.Len(t, first, 2)
	assert.Equal(t, first[0]["scan"], first[1]["scan"])
	assert.Len(t, first[0]["scan"], 26)

	out.Reset()
	require.NoError(t, w.Scan(context.Background()))
	assert.Empty(t, out.String(), "no new messages")

	device.PrepareOutput(gsm.SIMMemory, 5, messageOutput(5, "Text:", "Later"))
	require.NoError(t, w.Scan(context.Background()))
	second := decodeEvents(t, out.String())
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0]["scan"], second[0]["scan"])
	assert.Equal(t, "Later", second[0]["sms"].(map[string]any)["text"])
}

func TestWatcher_Cancelled(t *testing.T) {
	device := gnokii.NewInMemory()
	w := newWatcher(sms.NewAssembler(device, gsm.SIMMemory), new(bytes.Buffer), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Scan(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchCmd_InvalidSchedule(t *testing.T) {
	device := gnokii.NewInMemory()

	_, err := execute(t, device, "watch", "--schedule", "every now and then")

	assert.ErrorContains(t, err, "invalid schedule")
	assert.Empty(t, device.Calls())
}
