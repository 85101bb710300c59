package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/awantoch/sitefn/config"
	sitehttp "github.com/awantoch/sitefn/http"
	"github.com/awantoch/sitefn/telemetry"
	"github.com/awantoch/sitefn/utils"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var addr, metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site through the function dispatcher",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				utils.Error("config: %v", err)
				exit(1)
				return
			}
			if !cmd.Flags().Changed("addr") && cfg.HTTP.Port != 0 {
				addr = net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port))
			}
			shutdownTracing, err := telemetry.Init(cfg)
			if err != nil {
				utils.Warn("telemetry disabled: %v", err)
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = shutdownTracing(sctx)
				utils.Sync()
			}()

			rt, err := bootstrap(ctx, cfg)
			if err != nil {
				utils.Error("%v", err)
				exit(1)
				return
			}
			if err := serve(ctx, addr, metricsAddr, sitehttp.NewHandler(rt)); err != nil {
				utils.Error("serve: %v", err)
				exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultServeAddr, "Listen address")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus /metrics on this address")
	return cmd
}

// serve runs h on addr (and metrics on metricsAddr, when set) until ctx is
// done, then shuts the servers down gracefully.
func serve(ctx context.Context, addr, metricsAddr string, h http.Handler) error {
	servers := []*http.Server{{Handler: h, ErrorLog: serverErrorLog("http: ")}}
	addrs := []string{addr}
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.MetricsHandler())
		servers = append(servers, &http.Server{Handler: mux, ErrorLog: serverErrorLog("metrics: ")})
		addrs = append(addrs, metricsAddr)
	}

	errCh := make(chan error, len(servers))
	for i, srv := range servers {
		ln, err := net.Listen("tcp", addrs[i])
		if err != nil {
			for _, started := range servers[:i] {
				_ = started.Close()
			}
			return err
		}
		utils.User("listening on http://%s", ln.Addr())
		go func(srv *http.Server, ln net.Listener) {
			err := srv.Serve(ln)
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			errCh <- err
		}(srv, ln)
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}

// serverErrorLog routes net/http server errors into the internal logger.
func serverErrorLog(prefix string) *log.Logger {
	return log.New(&utils.LoggerWriter{Fn: utils.Warn, Prefix: prefix}, "", 0)
}
