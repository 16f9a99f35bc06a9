package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"library-manager/feature/library/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// libraryCmd groups inspection commands for the library database.
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect the library database",
}

// sourcesCmd lists the installed sources.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List installed sources",
	Long:  `Lists the source rows the migration resolves new entries against. Disabled sources reject migrations onto them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		env, err := openEnvironment(ctx)
		if err != nil {
			return err
		}

		rows, err := env.repo.Sources(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}
		writeSources(os.Stdout, rows)

		if env.cfg.Migration.LocalSourceRoot != "" {
			env.log.Info("Local source enabled",
				zap.Int64("id", env.cfg.Migration.LocalSourceID),
				zap.String("root", env.cfg.Migration.LocalSourceRoot),
			)
		}
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(sourcesCmd)
	RootCmd.AddCommand(libraryCmd)
}

func writeSources(w io.Writer, rows []models.Source) {
	fmt.Fprintln(w, "\n=== Sources ===")
	for _, row := range rows {
		state := "enabled"
		if !row.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(w, "%-6d %-24s %-6s %-8s %s\n", row.ID, row.Name, row.Kind, state, row.BaseURL)
	}
	fmt.Fprintf(w, "Total: %d\n", len(rows))
}
