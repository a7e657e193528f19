package cli

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ftl/gsm-inbox/serial"
)

func newPortsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List the serial ports and find the modem",
		Long: "Ports lists all serial ports of this system and the port that looks like a GSM modem. " +
			"With --probe the modem port is opened and checked with an AT command. gnokii must not run at the same time.",
		Args: cobra.NoArgs,
		RunE: runPorts,
	}

	cmd.Flags().String("serial-port", "", "Port to probe, default is the detected modem ($GSM_INBOX_SERIAL_PORT)")
	cmd.Flags().Int("baud-rate", serial.DefaultBaudRate, "Baud rate used to probe the port ($GSM_INBOX_BAUD_RATE)")
	cmd.Flags().Bool("probe", false, "Probe the modem port with an AT command")

	return cmd
}

func runPorts(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	probe, _ := cmd.Flags().GetBool("probe")
	out := cmd.OutOrStdout()

	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	for _, port := range ports {
		fmt.Fprintln(out, port)
	}

	modemPort, err := serial.FindModemPortName()
	switch {
	case errors.Is(err, serial.NoModemFound):
		fmt.Fprintln(out, "modem: none")
	case err != nil:
		return pkgerrors.Wrap(err, "cannot detect the modem")
	default:
		fmt.Fprintf(out, "modem: %s\n", modemPort)
	}

	if !probe {
		return nil
	}
	portName := config.SerialPort
	if portName == "" {
		portName = modemPort
	}
	if portName == "" {
		return serial.NoModemFound
	}
	response, err := serial.Probe(portName, uint(config.BaudRate))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", portName, response)
	return nil
}
