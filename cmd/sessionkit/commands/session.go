package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sessionkit/internal/crypto"
	"sessionkit/internal/domain"
)

// sessionCmd verifies a peer device's signed pre-key and derives session
// keys with it. Records live in memory, so the command reports what it
// derived.
func sessionCmd() *cobra.Command {
	var tofu bool
	cmd := &cobra.Command{
		Use:   "session <name.deviceId> <identity-b64> <signed-prekey-b64> <signature-b64>",
		Short: "Establish a session with a peer device",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			addr, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}
			var keys [3][]byte
			for i, arg := range args[1:] {
				if keys[i], err = crypto.FromB64(arg); err != nil {
					return fmt.Errorf("decode argument %d: %w", i+2, err)
				}
			}

			ours, err := appCtx.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			defer crypto.Wipe(ours.Private)

			rec, err := appCtx.Sessions.EstablishSession(cmd.Context(), addr, ours, keys[0], keys[1], keys[2], tofu)
			if err != nil {
				return fmt.Errorf("establishing session with %s: %w", addr, err)
			}

			// Print a fingerprint of the root key so users can compare sides.
			fmt.Fprintf(cmd.OutOrStdout(), "Session created with %s. Peer=%s Root=%s\n",
				rec.Address, crypto.Fingerprint(rec.RemoteIdentity), crypto.Fingerprint(rec.RootKey))
			return nil
		},
	}
	cmd.Flags().BoolVar(&tofu, "trust-on-first-use", false, "skip the signed pre-key check")
	return cmd
}
