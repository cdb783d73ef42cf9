package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sessionkit/internal/domain"
)

// address <text>...: parse each address and print its parts.
func addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <name.deviceId>...",
		Short: "Parse and normalize device addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, text := range args {
				addr, err := domain.ParseAddress(text)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tname=%s\tdevice=%d\n", addr, addr.Name, addr.DeviceID)
			}
			return nil
		},
	}
}
