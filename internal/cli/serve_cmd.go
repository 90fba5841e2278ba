package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/itinera/internal/api"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var (
		addr    string
		rate    int
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.ServeAddr
			}
			deps := apiDeps(app)
			if cmd.Flags().Changed("rate") {
				deps.RequestsPerMinute = rate
			}
			if len(origins) > 0 {
				deps.AllowedOrigins = origins
			}

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(deps),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.logger().Info("api listening", "addr", addr, "rate_per_min", deps.RequestsPerMinute)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			app.logger().Info("api shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $ITINERA_SERVE_ADDR or :8080)")
	cmd.Flags().IntVar(&rate, "rate", 0, "Requests per minute per client IP, 0 disables limiting (default $ITINERA_API_RATE)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin, repeatable (default $ITINERA_CORS_ORIGINS or *)")

	return cmd
}

func apiDeps(app *App) api.Deps {
	return api.Deps{
		Generator:         app.Generator,
		Refiner:           app.Refiner,
		Events:            app.Events,
		Alternatives:      app.Alternatives,
		Geocoder:          app.Geocoder,
		ShareBaseURL:      app.ShareBaseURL,
		AllowedOrigins:    app.AllowedOrigins,
		RequestsPerMinute: app.RequestsPerMinute,
		Now:               app.now,
		Logger:            app.logger(),
	}
}
