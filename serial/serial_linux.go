//go:build linux

package serial

import (
	"github.com/hedhyw/Go-Serial-Detector/pkg/v1/serialdet"
)

// FindModemPortName returns the path of the first serial device that looks like a GSM modem.
func FindModemPortName() (string, error) {
	devices, err := serialdet.List()
	if err != nil {
		return "", err
	}

	for _, device := range devices {
		if isModem(device.Description()) {
			return device.Path(), nil
		}
	}

	return "", NoModemFound
}
