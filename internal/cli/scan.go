package cli

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ftl/gsm-inbox/sms"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Print all messages of the memory as JSON lines",
		Long: "Scan reads every position of the memory in ascending order and prints each complete " +
			"message as one JSON line as soon as it is assembled.",
		Args: cobra.NoArgs,
		RunE: runScan,
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	encoder := json.NewEncoder(cmd.OutOrStdout())
	var encodeErr error
	assembler := s.assembler().WithMessageCallback(func(message sms.SMS) {
		encodeErr = multierr.Append(encodeErr, encoder.Encode(message))
	})

	result, err := assembler.Scan(cmd.Context())
	if err != nil {
		return errors.Wrapf(err, "scan %s", s.config.Memory)
	}
	logScanResult(s.logger, result)
	return encodeErr
}
