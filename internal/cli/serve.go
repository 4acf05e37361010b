package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"spacetraveling/internal/bootstrap"
	sitehttp "spacetraveling/internal/http"
	"spacetraveling/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(s *state) *cobra.Command {
	var (
		addr     string
		prebuild bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages with on-demand generation and revalidation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := s.factory(ctx, s.cfg, bootstrap.SiteOptions(s.cfg))
			if err != nil {
				return err
			}
			if prebuild {
				if _, err := app.Publisher.Build(ctx); err != nil {
					return err
				}
			}
			if addr == "" {
				addr = s.cfg.HTTP.Addr()
			}

			var ready atomic.Bool
			srv := &http.Server{
				Addr: addr,
				Handler: sitehttp.NewRouter(app.Publisher, sitehttp.Options{
					Logger:  logger.Logger,
					Timeout: s.cfg.Prismic.Timeout + s.cfg.Site.FallbackWait,
					Ready:   &ready,
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("http listen start", "addr", ln.Addr().String())

			serveErrCh := make(chan error, 1)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErrCh <- err
				}
				close(serveErrCh)
			}()
			ready.Store(true)

			select {
			case <-ctx.Done():
				logger.Info("shutdown requested")
			case err := <-serveErrCh:
				if err != nil {
					return err
				}
			}
			ready.Store(false)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown incomplete", "error", err)
			}

			// 作りかけのページを保存し終えてから終了する
			app.Publisher.Wait()
			logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_HOST and HTTP_PORT)")
	cmd.Flags().BoolVar(&prebuild, "prebuild", false, "build every page before serving")
	return cmd
}
