package cli

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <position>",
		Short: "Print the message at one memory position",
		Long:  "Get prints the message at the given position as JSON. If it is part of a linked message, all parts are read and joined.",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	position, err := strconv.Atoi(args[0])
	if err != nil || position < 0 {
		return errors.Errorf("invalid position %q", args[0])
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	message, err := s.assembler().Fetch(cmd.Context(), position)
	if err != nil {
		return errors.Wrapf(err, "get %s %d", s.config.Memory, position)
	}

	return json.NewEncoder(cmd.OutOrStdout()).Encode(message)
}
