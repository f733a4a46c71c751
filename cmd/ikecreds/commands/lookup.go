package commands

import (
	"fmt"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/ikecreds/internal/config"
	ikeerrors "github.com/systmms/ikecreds/internal/errors"
	"github.com/systmms/ikecreds/internal/logging"
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/enumerator"
	"github.com/systmms/ikecreds/pkg/identity"
)

func NewLookupCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query the credential store the way an IKE daemon does",
		Long: `Load the configured credentials and run a single certificate, private key
or shared secret lookup against them.`,
	}

	cmd.AddCommand(
		newLookupCertCommand(cfg),
		newLookupKeyCommand(cfg),
		newLookupSecretCommand(cfg),
	)

	return cmd
}

func newLookupCertCommand(cfg *config.Config) *cobra.Command {
	var (
		id      string
		keyType string
	)

	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Find certificates by identity and key type",
		Long: `Find certificates whose subject, alternative names or key-id match --id.

Examples:
  ikecreds lookup cert --id vpn.example.com
  ikecreds lookup cert --id "CN=gateway,O=Example" --key-type rsa
  ikecreds lookup cert --id "#3f2a..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kt, err := credential.ParseKeyType(keyType)
			if err != nil {
				return ikeerrors.UserError{
					Message:    "Invalid --key-type",
					Details:    err.Error(),
					Suggestion: "Use one of: any, rsa, ecdsa, ed25519",
				}
			}

			var query *identity.Identity
			if id != "" {
				if query, err = parseIdentity("id", id); err != nil {
					return err
				}
			}

			store, err := loadStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			found := 0
			for cert := range enumerator.All(store.Certificates(credential.CertX509, kt, query, false)) {
				pub, _ := cert.PublicKey()
				_, _ = fmt.Fprintf(out, "%s  %s  %s\n", cert.Subject(), pub.Type(), keyID(pub))
				found++
			}
			if found == 0 {
				return ikeerrors.UserError{
					Message:    fmt.Sprintf("No certificate matches %s", query),
					Suggestion: "Run 'ikecreds inspect' to list the loaded certificates",
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identity to match (empty matches any)")
	cmd.Flags().StringVar(&keyType, "key-type", "any", "Public key type: any, rsa, ecdsa, ed25519")

	return cmd
}

func newLookupKeyCommand(cfg *config.Config) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Find a private key by key-id",
		Long: `Find the private key whose SHA-1 public key fingerprint equals --id.

Examples:
  ikecreds lookup key --id "#3f2a..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseIdentity("id", id)
			if err != nil {
				return err
			}
			if query.Type() != identity.TypeKeyID {
				return ikeerrors.UserError{
					Message:    "Private keys are looked up by key-id",
					Suggestion: "Pass the key-id as --id \"#<hex>\" (see 'ikecreds inspect')",
				}
			}

			store, err := loadStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			found := 0
			for key := range enumerator.All(store.PrivateKeys(credential.KeyAny, query)) {
				pub, _ := key.Public()
				_, _ = fmt.Fprintf(out, "%s  %s\n", key.Type(), keyID(pub))
				found++
			}
			if found == 0 {
				return ikeerrors.UserError{
					Message:    fmt.Sprintf("No private key matches %s", query),
					Suggestion: "Check the keys configured under 'keys:' and that they were imported",
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Key-id as #hex (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newLookupSecretCommand(cfg *config.Config) *cobra.Command {
	var (
		me     string
		other  string
		xauth  bool
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Find the shared secret for an identity",
		Long: `Find the most recently configured shared secret owned by --me.

The secret is printed as [REDACTED] unless --reveal is given.

Examples:
  ikecreds lookup secret --me alice@example.com
  ikecreds lookup secret --me bob --xauth --reveal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meID, err := parseIdentity("me", me)
			if err != nil {
				return err
			}
			var otherID *identity.Identity
			if other != "" {
				if otherID, err = parseIdentity("other", other); err != nil {
					return err
				}
			}

			kind := credential.SharedIKE
			if xauth {
				kind = credential.SharedEAP
			}

			store, err := loadStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			e := store.SharedSecret(kind, meID, otherID)
			if e == nil {
				return ikeerrors.UserError{
					Message:    fmt.Sprintf("No %s secret for %s", kind, meID),
					Suggestion: "Check the secrets configured under 'secrets:' (use --xauth for xauth secrets)",
				}
			}
			defer e.Close()

			m, ok := e.Next()
			if !ok {
				return fmt.Errorf("shared secret enumerator for %s yielded nothing", meID)
			}

			secret, err := m.Key.Bytes()
			if err != nil {
				return err
			}
			defer memguard.WipeBytes(secret)

			value := logging.Secret(secret).String()
			if reveal {
				value = string(secret)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  me=%s other=%s  %s\n", m.Key.Type(), m.Me, m.Other, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&me, "me", "", "Local identity owning the secret (required)")
	cmd.Flags().StringVar(&other, "other", "", "Remote identity (not used for matching)")
	cmd.Flags().BoolVar(&xauth, "xauth", false, "Look up an XAuth/EAP secret instead of an IKE PSK")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the secret value")
	_ = cmd.MarkFlagRequired("me")

	return cmd
}
