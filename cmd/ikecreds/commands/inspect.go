package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/ikecreds/internal/config"
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/enumerator"
)

type certificateInfo struct {
	Subject string `json:"subject"`
	KeyType string `json:"key_type"`
	KeyID   string `json:"key_id"`
}

type inspectOutput struct {
	KeystoreService string            `json:"keystore_service"`
	PrivateKeys     int               `json:"private_keys"`
	SharedSecrets   int               `json:"shared_secrets"`
	Certificates    []certificateInfo `json:"certificates"`
}

func NewInspectCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the configured credentials and summarize the store",
		Long: `Load every configured credential and print what the store holds.

Certificates are listed with their subject, key type and SHA-1 key-id.
Private keys and shared secrets are only counted; secret values are never
printed.

Examples:
  ikecreds inspect
  ikecreds inspect --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats := store.Stats()
			output := inspectOutput{
				KeystoreService: cfg.KeystoreService(),
				PrivateKeys:     stats.PrivateKeys,
				SharedSecrets:   stats.SharedSecrets,
				Certificates:    []certificateInfo{},
			}
			for cert := range enumerator.All(store.Certificates(credential.CertAny, credential.KeyAny, nil, false)) {
				pub, _ := cert.PublicKey()
				output.Certificates = append(output.Certificates, certificateInfo{
					Subject: cert.Subject().String(),
					KeyType: pub.Type().String(),
					KeyID:   keyID(pub),
				})
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(output); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			}

			_, _ = fmt.Fprintf(out, "Keystore service: %s\n", output.KeystoreService)
			_, _ = fmt.Fprintf(out, "Certificates: %d\n", len(output.Certificates))
			for _, c := range output.Certificates {
				_, _ = fmt.Fprintf(out, "  %s  %s  %s\n", c.Subject, c.KeyType, c.KeyID)
			}
			_, _ = fmt.Fprintf(out, "Private keys: %d\n", output.PrivateKeys)
			_, _ = fmt.Fprintf(out, "Shared secrets: %d\n", output.SharedSecrets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
