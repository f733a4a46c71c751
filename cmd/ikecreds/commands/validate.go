package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/ikecreds/internal/config"
	"github.com/systmms/ikecreds/internal/provision"
)

func NewValidateCommand(cfg *config.Config) *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long: `Check the configuration file against its schema and parse every identity.

With --load the credentials are also loaded into a throwaway store, which
additionally checks certificate files, keystore aliases and secret
environment variables.

Examples:
  ikecreds validate
  ikecreds validate --config /etc/ikecreds.yaml --load`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			def := cfg.Definition
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Configuration %s is valid\n", cfg.Path)
			_, _ = fmt.Fprintf(out, "  keystore service: %s\n", cfg.KeystoreService())
			_, _ = fmt.Fprintf(out, "  certificates:     %d\n", len(def.Certificates))
			_, _ = fmt.Fprintf(out, "  private keys:     %d\n", len(def.Keys))
			_, _ = fmt.Fprintf(out, "  shared secrets:   %d\n", len(def.Secrets))

			if !load {
				return nil
			}

			logger := commandLogger(cfg)
			store := newStore(cfg)
			defer store.Close()

			result, err := provision.New(cfg, logger).Apply(store)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Loaded %d certificates, %d private keys, %d shared secrets\n",
				result.Certificates, result.PrivateKeys, result.SharedSecrets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&load, "load", false, "Also load every credential")

	return cmd
}
