package cli

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ftl/gsm-inbox/sms"
)

func newIdentifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify",
		Short: "Print the identity of the phone",
		Args:  cobra.NoArgs,
		RunE:  runIdentify,
	}
}

func runIdentify(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	output, err := s.device.Identify(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "identify")
	}

	identity, ok, err := sms.NewParser().Parse(sms.IdentifyOutput, output)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("unexpected identify output")
		return errors.Errorf("cannot identify the phone: %q", output)
	}

	return json.NewEncoder(cmd.OutOrStdout()).Encode(identity)
}
