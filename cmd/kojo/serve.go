package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/kojo/internal/platform/tui"
	"github.com/vovakirdan/kojo/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kojo SSH server",
	Long: `Start an SSH server that lets players connect and play.

Each SSH connection gets its own session and menu; the SSH user name is
the player name. All sessions share the configured leaderboard storage.
With --http, the leaderboard is also served as JSON.

Examples:
  kojo serve                        # Listen on server.ssh from the config
  kojo serve --ssh :23234           # Listen on port 23234
  kojo serve --http :8080           # Also serve /api/leaderboard
  kojo serve --host-key ./host_key  # Use a specific host key

Players can connect with:
  ssh -p 2222 <name>@localhost`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH address (overrides server.ssh)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP address (overrides server.http)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Host key path (overrides server.host_key)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout, e.g. 30m (overrides server.idle_timeout)")
}

func runServe(_ *cobra.Command, _ []string) error {
	sc := appConfig.Server
	if flagSSHAddr != "" {
		sc.SSH = flagSSHAddr
	}
	if flagHTTPAddr != "" {
		sc.HTTP = flagHTTPAddr
	}
	if flagHostKey != "" {
		sc.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		sc.IdleTimeout = flagIdleTimeout
	}

	logger := stderrLogger()
	backend := openBackend(logger)
	defer backend.Close()

	newSession := func(ctx context.Context, id, player string) *tui.Session {
		sessionLogger := logger.With("session", id)
		scores := newScoreService(backend, player, sessionLogger)
		return tui.StartSession(ctx, id, scores, historyOf(backend), sessionLogger)
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     sc.SSH,
		HostKeyPath: sc.HostKey,
		IdleTimeout: sc.IdleTimeout,
		Runtime:     runtimeConfig(80, 24),
	}, newSession, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.ListenAndServe(ctx) })

	if sc.HTTP != "" {
		handler := web.NewServer(web.Options{
			Store:    backend.KV,
			Key:      appConfig.Leaderboard.Key,
			Capacity: appConfig.Leaderboard.Capacity,
			History:  webHistory(backend),
			Logger:   logger,
		})
		g.Go(func() error { return web.Serve(ctx, sc.HTTP, handler, logger) })
	}

	logger.Info("kojo is up", "ssh", sc.SSH, "http", sc.HTTP, "storage", backend.Name)
	return g.Wait()
}
