package cli

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ftl/gsm-inbox/gnokii"
	"github.com/ftl/gsm-inbox/gsm"
	"github.com/ftl/gsm-inbox/sms"
)

func messageOutput(position int, marker string, text string) string {
	return fmt.Sprintf("%d. Inbox Message (Unread)\nDate/time: 03/09/2017 18:13:49 +0700\nSender: +79526191914 Msg Center: +79139869993\n%s\n%s\n",
		position, marker, text)
}

func prepareInbox(device *gnokii.InMemory, memory gsm.MemoryType) {
	device.PrepareOutput(memory, 1, messageOutput(1, "Text:", "Hello"))
	device.PrepareOutput(memory, 2, messageOutput(2, "Linked (1/2):", "Good "))
	device.PrepareOutput(memory, 3, messageOutput(3, "Linked (2/2):", "morning"))
}

func execute(t *testing.T, device Device, args ...string) (string, error) {
	t.Helper()
	original := openDevice
	openDevice = func(*Config, *zap.Logger, io.Writer) (Device, error) {
		return device, nil
	}
	t.Cleanup(func() {
		openDevice = original
	})

	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--log-level=error"))

	err := cmd.Execute()
	return out.String(), err
}

func TestScanCmd(t *testing.T) {
	device := gnokii.NewInMemory()
	prepareInbox(device, gsm.SIMMemory)

	out, err := execute(t, device, "scan", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t,
		`{"datetime":"03/09/2017 11:13:49 +0000","text":"Hello","memory":{"type":"SM","slots":[1]},"sender":"+79526191914","multipart":false,"read":false}`+"\n"+
			`{"datetime":"03/09/2017 11:13:49 +0000","text":"Good morning","memory":{"type":"SM","slots":[2,3]},"sender":"+79526191914","multipart":true,"read":false}`+"\n",
		out)
	assert.Len(t, device.Calls(), 5)
}

func TestScanCmd_Memory(t *testing.T) {
	device := gnokii.NewInMemory()
	prepareInbox(device, gsm.PhoneMemory)

	out, err := execute(t, device, "scan", "--memory", "me", "--positions", "2")

	require.NoError(t, err)
	assert.Contains(t, out, `"memory":{"type":"ME","slots":[1]}`)
	assert.Equal(t, []gnokii.Call{{Memory: gsm.PhoneMemory, Position: 0}, {Memory: gsm.PhoneMemory, Position: 1}}, device.Calls())
}

func TestScanCmd_InvalidConfig(t *testing.T) {
	device := gnokii.NewInMemory()

	_, err := execute(t, device, "scan", "--memory", "XX")

	assert.Error(t, err)
	assert.Empty(t, device.Calls())
}

func TestGetCmd(t *testing.T) {
	device := gnokii.NewInMemory()
	prepareInbox(device, gsm.SIMMemory)

	out, err := execute(t, device, "get", "3")

	require.NoError(t, err)
	assert.Contains(t, out, `"text":"Good morning"`)
	assert.Contains(t, out, `"slots":[2,3]`)

	_, err = execute(t, device, "get", "4")
	assert.ErrorIs(t, err, sms.ErrDeviceCommand)

	_, err = execute(t, device, "get", "first")
	assert.Error(t, err)

	_, err = execute(t, device, "get")
	assert.Error(t, err)
}

func TestIdentifyCmd(t *testing.T) {
	device := gnokii.NewInMemory()
	device.PrepareIdentity("GNOKII Version 0.6.31\nIMEI         : 356938035643809\nManufacturer : Nokia\nModel        : RM-1035\n")

	out, err := execute(t, device, "identify")

	require.NoError(t, err)
	assert.Equal(t, `{"imei":"356938035643809","manufacturer":"Nokia","model":"RM-1035"}`+"\n", out)
}

func TestIdentifyCmd_Garbage(t *testing.T) {
	device := gnokii.NewInMemory()
	device.PrepareIdentity("Error opening the serial port\n")

	_, err := execute(t, device, "identify")

	assert.Error(t, err)
}
