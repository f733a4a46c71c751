package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/systmms/ikecreds/internal/config"
	"github.com/systmms/ikecreds/internal/metrics"
	"github.com/systmms/ikecreds/pkg/credstore"
)

const shutdownTimeout = 5 * time.Second

func NewMetricsCommand(cfg *config.Config) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Load the credentials and serve store metrics",
		Long: `Load the configured credentials and serve Prometheus metrics on /metrics
until interrupted.

Examples:
  ikecreds metrics --listen :9464`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			store, err := loadStore(cfg, credstore.WithObserver(metrics.NewStoreMetrics(reg)))
			if err != nil {
				return err
			}
			defer store.Close()

			metrics.RegisterStoredCredentials(reg, func() map[string]int {
				stats := store.Stats()
				return map[string]int{
					credstore.KindCertificate: stats.Certificates,
					credstore.KindPrivateKey:  stats.PrivateKeys,
					credstore.KindShared:      stats.SharedSecrets,
				}
			})

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", listen, err)
			}
			commandLogger(cfg).Info("Serving metrics on http://%s/metrics", ln.Addr())

			return serveMetrics(cmd.Context(), ln, reg)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":9464", "Address to serve /metrics on")

	return cmd
}

// serveMetrics serves reg on ln until ctx is done
func serveMetrics(ctx context.Context, ln net.Listener, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
