package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sessionkit/internal/crypto"
)

// pubkey: print the identity public key (base64, type-prefixed).
func pubkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey",
		Short: "Print the identity public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			kp, err := appCtx.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			defer crypto.Wipe(kp.Private)
			fmt.Fprintln(cmd.OutOrStdout(), crypto.B64(kp.Public))
			return nil
		},
	}
}

// agree <peer-pub>: print the X25519 shared secret with a peer.
func agreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agree <peer-public-b64>",
		Short: "Compute the shared secret with a peer public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			peer, err := crypto.FromB64(args[0])
			if err != nil {
				return fmt.Errorf("decode peer key: %w", err)
			}
			kp, err := appCtx.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			defer crypto.Wipe(kp.Private)

			secret, err := appCtx.Curve.ComputeAgreement(peer, kp.Private)
			if err != nil {
				return err
			}
			defer crypto.Wipe(secret)
			fmt.Fprintln(cmd.OutOrStdout(), crypto.B64(secret))
			return nil
		},
	}
}

// sign <message>: print an XEdDSA signature over message.
func signCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message with the identity key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			kp, err := appCtx.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			defer crypto.Wipe(kp.Private)

			sig, err := appCtx.Curve.Sign(kp.Private, []byte(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), crypto.B64(sig))
			return nil
		},
	}
}

var errBadSignature = errors.New("signature does not verify")

// verify <pub> <message> <sig>: exit non-zero unless the signature verifies.
func verifyCmd() *cobra.Command {
	var tofu bool
	cmd := &cobra.Command{
		Use:   "verify <public-b64> <message> <signature-b64>",
		Short: "Check a signature against a public key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := crypto.FromB64(args[0])
			if err != nil {
				return fmt.Errorf("decode public key: %w", err)
			}
			sig, err := crypto.FromB64(args[2])
			if err != nil {
				return fmt.Errorf("decode signature: %w", err)
			}
			ok, err := appCtx.Curve.Verify(pub, []byte(args[1]), sig, tofu)
			if err != nil {
				return err
			}
			if !ok {
				return errBadSignature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().BoolVar(&tofu, "trust-on-first-use", false, "accept without checking (first contact)")
	return cmd
}
