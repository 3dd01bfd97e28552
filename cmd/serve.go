package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/readycatholic/readycatholic/internal/browser"
	"github.com/readycatholic/readycatholic/internal/config"
	"github.com/readycatholic/readycatholic/internal/digest"
	"github.com/readycatholic/readycatholic/internal/feed"
	"github.com/readycatholic/readycatholic/internal/render"
	"github.com/readycatholic/readycatholic/internal/schedule"
	"github.com/readycatholic/readycatholic/internal/web"
)

var (
	flagListen string
	flagOpen   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the digest over HTTP and regenerate it on a schedule",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (host:port)")
	serveCmd.Flags().BoolVar(&flagOpen, "open", false, "open the digest in the default browser")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	collector := digest.NewCollector(feed.NewRSSFetcher(), cfg)
	if flagPerSource >= 0 {
		collector.PerSource = flagPerSource
	}
	renderer, err := render.New()
	if err != nil {
		return err
	}

	out := resolveOutputPath(cfg)
	refresh := func(ctx context.Context) (*digest.Digest, string, error) {
		d := collector.Collect(ctx, cfg.EnabledSources())
		page, err := renderer.Render(d, time.Now())
		if err != nil {
			return nil, "", err
		}
		if err := writeFileAtomic(out, []byte(page)); err != nil {
			return nil, "", err
		}
		return d, page, nil
	}

	server := web.NewServer(refresh, cfg.Sources)
	sched, err := schedule.New(cfg.GetCron(), func() {
		if err := server.Refresh(context.Background()); err != nil {
			slog.Error("refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	// A failed first run still serves; the next tick retries.
	sched.RunOnce()
	sched.Start()
	defer sched.Stop()

	listen := resolveListenAddr(cfg)
	if flagOpen {
		openDigest(listen)
	}
	slog.Info("serving digest", "addr", listen, "cron", cfg.GetCron(), "output", out)
	return server.Router().Run(listen)
}

func openDigest(listen string) {
	pageURL, err := browser.LocalURL(listen)
	if err != nil {
		slog.Warn("cannot open browser", "listen", listen, "error", err)
		return
	}
	if err := browser.Open(pageURL); err != nil {
		slog.Warn("cannot open browser", "url", pageURL, "error", err)
	}
}

func resolveListenAddr(cfg *config.Config) string {
	if flagListen != "" {
		return flagListen
	}
	return config.Getenv("READYCATHOLIC_LISTEN", cfg.GetListen())
}
