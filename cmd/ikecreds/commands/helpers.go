package commands

import (
	"encoding/hex"
	"errors"

	"github.com/systmms/ikecreds/internal/config"
	ikeerrors "github.com/systmms/ikecreds/internal/errors"
	"github.com/systmms/ikecreds/internal/logging"
	"github.com/systmms/ikecreds/internal/provision"
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/credstore"
	"github.com/systmms/ikecreds/pkg/identity"
)

// newStore builds the store commands provision into. Tests replace it to
// swap the OS keyring for a fake.
var newStore = provision.NewStore

// loadStore loads the configuration and provisions a store from it.
// Credentials that fail to load are reported as warnings; the store is
// still returned with everything else.
func loadStore(cfg *config.Config, opts ...credstore.Option) (*credstore.Store, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	logger := commandLogger(cfg)
	store := newStore(cfg, append([]credstore.Option{credstore.WithLogger(logger)}, opts...)...)

	_, err := provision.New(cfg, logger).Apply(store)
	var provErr ikeerrors.ProvisionError
	if errors.As(err, &provErr) {
		logger.Warn("%v", provErr)
		return store, nil
	}
	if err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func commandLogger(cfg *config.Config) logging.Leveled {
	if cfg.Logger == nil {
		return logging.Discard()
	}
	return cfg.Logger
}

func parseIdentity(flag, value string) (*identity.Identity, error) {
	id, err := identity.FromString(value)
	if err != nil {
		return nil, ikeerrors.UserError{
			Message:    "Invalid identity for --" + flag,
			Details:    err.Error(),
			Suggestion: "Use an address, host name, email, DN (CN=...) or #hex key-id",
			Err:        err,
		}
	}
	return id, nil
}

func keyID(pub credential.PublicKey) string {
	if pub == nil {
		return "-"
	}
	fp, ok := pub.Fingerprint(credential.KeyIDPubkeySHA1)
	if !ok {
		return "-"
	}
	return "#" + hex.EncodeToString(fp)
}
