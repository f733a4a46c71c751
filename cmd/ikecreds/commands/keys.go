package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/ikecreds/internal/config"
	ikeerrors "github.com/systmms/ikecreds/internal/errors"
	"github.com/systmms/ikecreds/internal/keystore"
)

// newKeystore opens the keystore for a service. Tests replace it.
var newKeystore = keystore.NewProvider

func NewKeysCommand(cfg *config.Config) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage private keys in the OS keystore",
		Long: `Import and remove the private keys that configuration 'keys:' entries
refer to by alias. Keys are stored as PEM in the OS keyring under the
configured keystore service.`,
	}

	cmd.PersistentFlags().StringVar(&service, "service", "", "Keyring service (defaults to the configured one)")

	cmd.AddCommand(
		newKeysImportCommand(cfg, &service),
		newKeysRemoveCommand(cfg, &service),
	)

	return cmd
}

// resolveService prefers the flag, then the configuration file if one can
// be loaded, then the default
func resolveService(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.Definition == nil && cfg.Path != "" {
		if err := cfg.Load(); err != nil {
			commandLogger(cfg).Debug("Using default keystore service: %v", err)
		}
	}
	return cfg.KeystoreService()
}

func newKeysImportCommand(cfg *config.Config, service *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <alias> <key.pem>",
		Short: "Store a PEM private key under an alias",
		Long: `Store a PEM private key under an alias.

Examples:
  ikecreds keys import vpn-client client-key.pem`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias, file := args[0], args[1]

			data, err := os.ReadFile(file)
			if err != nil {
				return ikeerrors.UserError{
					Message:    fmt.Sprintf("Failed to read key file %s", file),
					Details:    err.Error(),
					Suggestion: "Check file permissions and path",
					Err:        err,
				}
			}

			svc := resolveService(cfg, *service)
			if err := newKeystore(svc).Import(alias, data); err != nil {
				return ikeerrors.KeystoreError(svc, alias, err)
			}

			commandLogger(cfg).Info("Imported key %q into keystore service %q", alias, svc)
			return nil
		},
	}
}

func newKeysRemoveCommand(cfg *config.Config, service *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <alias>",
		Short: "Delete the private key stored under an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			svc := resolveService(cfg, *service)
			if err := newKeystore(svc).Remove(alias); err != nil {
				return ikeerrors.KeystoreError(svc, alias, err)
			}

			commandLogger(cfg).Info("Removed key %q from keystore service %q", alias, svc)
			return nil
		},
	}
}
