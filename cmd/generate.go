package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/readycatholic/readycatholic/internal/classify"
	"github.com/readycatholic/readycatholic/internal/config"
	"github.com/readycatholic/readycatholic/internal/digest"
	"github.com/readycatholic/readycatholic/internal/feed"
	"github.com/readycatholic/readycatholic/internal/render"
)

// runGenerate reports failures instead of failing the command: a broken run
// leaves the previous page in place and the process exits normally.
func runGenerate(cmd *cobra.Command, args []string) error {
	if err := generate(cmd.Context()); err != nil {
		slog.Error("generate failed", "error", err)
	}
	return nil
}

func generate(ctx context.Context) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	collector := digest.NewCollector(feed.NewRSSFetcher(), cfg)
	if flagPerSource >= 0 {
		collector.PerSource = flagPerSource
	}

	sources := cfg.EnabledSources()
	slog.Info("collecting headlines", "sources", len(sources))
	d := collector.Collect(ctx, sources)

	renderer, err := render.New()
	if err != nil {
		return err
	}
	page, err := renderer.Render(d, time.Now())
	if err != nil {
		return err
	}

	out := resolveOutputPath(cfg)
	if err := writeFileAtomic(out, []byte(page)); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	printSummary(d, out)
	return nil
}

func resolveConfigPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Getenv("READYCATHOLIC_CONFIG", "")
}

func resolveOutputPath(cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return config.Getenv("READYCATHOLIC_OUTPUT", cfg.GetOutput())
}

// writeFileAtomic writes data next to path and renames it into place, so a
// failed run never leaves a truncated page behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".readycatholic-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#8A6D00", Dark: "#FFD700"})

	summaryCountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"})

	summaryDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"})
)

func printSummary(d *digest.Digest, out string) {
	fmt.Println(summaryTitleStyle.Render("READY CATHOLIC"))
	for _, cat := range classify.All() {
		count := summaryCountStyle.Render(fmt.Sprintf("%3d", len(d.Headlines(cat))))
		fmt.Printf("  %s  %s\n", count, cat)
	}
	fmt.Println(summaryDimStyle.Render(fmt.Sprintf("%d headlines written to %s", d.Total(), out)))
}
