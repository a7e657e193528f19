package serial

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jacobsa/go-serial/serial"
	pkgerrors "github.com/pkg/errors"
	bugst "go.bug.st/serial"
)

var (
	NoModemFound = errors.New("no GSM modem found")
	NoResponse   = errors.New("no response from modem")
)

// DefaultBaudRate is used to probe a port if no baud rate is configured.
const DefaultBaudRate = 115200

// modemDescriptions are substrings of the USB device descriptions of phones and GSM modems
// that gnokii can talk to.
var modemDescriptions = []string{
	"gsm",
	"modem",
	"nokia",
	"huawei",
	"zte",
	"sierra",
	"simcom",
	"quectel",
}

func isModem(description string) bool {
	description = strings.ToLower(description)
	for _, candidate := range modemDescriptions {
		if strings.Contains(description, candidate) {
			return true
		}
	}
	return false
}

// ListPorts returns the names of all serial ports of this system.
func ListPorts() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "cannot list serial ports")
	}
	return ports, nil
}

// Probe opens the given port, sends an AT command and returns the response of the modem.
// gnokii must not use the port at the same time.
func Probe(portName string, baudRate uint) (string, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	portConfig := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: 500,
	}

	device, err := serial.Open(portConfig)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "cannot open %s", portName)
	}
	defer device.Close()

	response, err := probe(device, 2*time.Second)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "cannot probe %s", portName)
	}
	return response, nil
}

func probe(device io.ReadWriter, timeout time.Duration) (string, error) {
	_, err := device.Write([]byte("AT\r"))
	if err != nil {
		return "", err
	}

	var response strings.Builder
	buf := make([]byte, 64)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		n, err := device.Read(buf)
		response.Write(buf[:n])
		if strings.Contains(response.String(), "OK") || strings.Contains(response.String(), "ERROR") {
			break
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	result := strings.TrimSpace(strings.ReplaceAll(response.String(), "\r", ""))
	result = strings.TrimSpace(strings.TrimPrefix(result, "AT"))
	if result == "" {
		return "", NoResponse
	}
	return result, nil
}
