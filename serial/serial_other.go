//go:build !linux

package serial

// FindModemPortName returns the first serial port of the system. Device descriptions are only
// available on linux.
func FindModemPortName() (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", NoModemFound
	}
	return ports[0], nil
}
