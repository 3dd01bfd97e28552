package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/readycatholic/readycatholic/internal/config"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured news sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(resolveConfigPath())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		for _, s := range cfg.Sources {
			mark := " "
			if s.Enabled {
				mark = "*"
			}
			fmt.Printf("%s %-28s %s\n", mark, s.Name, s.URL)
		}
		fmt.Printf("\n%d sources, %d enabled\n", len(cfg.Sources), len(cfg.EnabledSources()))
		return nil
	},
}
