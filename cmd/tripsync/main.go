// Command tripsync is a small operator CLI around the offline-first trip
// sync engine: inspect the pending queue, trigger a manual flush, list
// trips, and mint invite codes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-trip-sync/internal/cache"
	"github.com/tbourn/go-trip-sync/internal/config"
	"github.com/tbourn/go-trip-sync/internal/connectivity"
	"github.com/tbourn/go-trip-sync/internal/events"
	"github.com/tbourn/go-trip-sync/internal/identity"
	"github.com/tbourn/go-trip-sync/internal/observability"
	"github.com/tbourn/go-trip-sync/internal/queue"
	"github.com/tbourn/go-trip-sync/internal/remote"
	"github.com/tbourn/go-trip-sync/internal/services"
	"github.com/tbourn/go-trip-sync/internal/sysutil"
	"github.com/tbourn/go-trip-sync/internal/utils"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "tripsync",
		Short:         "Offline-first trip sync engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", defaultConfigPath(), "path to a TOML config file")

	root.AddCommand(
		newStatusCmd(&configFile),
		newFlushCmd(&configFile),
		newTripsCmd(&configFile),
		newCodeCmd(),
	)
	return root
}

func newStatusCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity and pending-queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(*configFile)
			if err != nil {
				return err
			}
			defer app.close(cmd.Context())

			state := "online"
			if app.flag.Offline() {
				state = "offline"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "connectivity: %s\n", state)
			fmt.Fprintf(cmd.OutOrStdout(), "pending actions: %d\n", app.queue.Len())
			if id := app.store.ActiveTripID(); id != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "active trip: %s\n", id)
			}
			return nil
		},
	}
}

func newFlushCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Replay the pending-action queue against the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(*configFile)
			if err != nil {
				return err
			}
			defer app.close(cmd.Context())

			res := app.coord.Flush(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "flushed: %d, remaining: %d\n", res.Flushed, res.Remaining)
			return nil
		},
	}
}

func newTripsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "trips",
		Short: "List trips (live when reachable, cached otherwise)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(*configFile)
			if err != nil {
				return err
			}
			defer app.close(cmd.Context())

			trips, err := app.coord.Trips(cmd.Context())
			if err != nil {
				return err
			}
			if len(trips) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no trips")
				return nil
			}
			for _, t := range trips {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n", t.ID, t.Name, t.Code)
			}
			return nil
		},
	}
}

func newCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "code",
		Short: "Generate a trip invite code",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateTripCode())
		},
	}
}

// app bundles the wired engine for one CLI invocation.
type app struct {
	cfg           config.Config
	coord         *services.Coordinator
	store         *cache.Store
	queue         *queue.Queue
	flag          *connectivity.Flag
	stopAutoFlush func()
	shutdown      func(context.Context) error
}

func buildApp(configFile string) (*app, error) {
	// Missing .env is fine; explicit env always wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := applyFileConfig(&cfg, configFile); err != nil {
		return nil, err
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	log := sysutil.NewLogger(cfg.LogPretty)

	shutdown, err := observability.SetupOTel(context.Background(), cfg.OTEL, version)
	if err != nil {
		return nil, err
	}

	db, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if cfg.OTEL.Enabled {
		if err := cache.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("cache tracing unavailable")
		}
	}
	store := cache.NewStore(db, log)
	q := queue.New(store)

	rc := remote.NewClient(cfg.Remote.BaseURL,
		remote.WithStaticToken(cfg.Remote.Token),
		remote.WithRateLimit(cfg.Remote.RateRPS, cfg.Remote.RateBurst),
		remote.WithHTTPClient(&http.Client{Timeout: cfg.Remote.Timeout}),
		remote.WithLogger(log),
	)

	ident := identity.NewTokenProvider(func() string { return cfg.Remote.Token })
	flag := connectivity.NewFlag(cfg.Remote.BaseURL != "")
	bus := events.NewBus()

	coord := services.NewCoordinator(rc, store, q, flag, ident, bus, log)

	a := &app{cfg: cfg, coord: coord, store: store, queue: q, flag: flag, shutdown: shutdown}
	if cfg.FlushOnStart {
		a.stopAutoFlush = coord.StartAutoFlush(context.Background(), flag)
	}
	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.stopAutoFlush != nil {
		a.stopAutoFlush()
	}
	if a.shutdown != nil {
		_ = a.shutdown(ctx)
	}
}
