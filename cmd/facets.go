package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"library-manager/feature/migration"

	"github.com/spf13/cobra"
)

// facetsCmd lists the facets selectable when migrating an entry.
var facetsCmd = &cobra.Command{
	Use:   "facets <entry-id>",
	Short: "List the facets a migration of the entry can carry over",
	Long: `Lists what can be migrated from the entry and which facets are selected
by default. The custom cover is only listed when the entry has one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		env, err := openEnvironment(ctx)
		if err != nil {
			return err
		}

		options, err := env.migration.Facets(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list facets: %w", err)
		}
		return writeFacets(os.Stdout, options, jsonOutput)
	},
}

func init() {
	facetsCmd.Flags().Bool("json", false, "Output JSON")
	RootCmd.AddCommand(facetsCmd)
}

func writeFacets(w io.Writer, options []migration.FacetOption, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(options)
	}

	fmt.Fprintln(w, "\n=== Migration Facets ===")
	for _, o := range options {
		mark := " "
		if o.Enabled {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %d %-14s %s\n", mark, o.Position, o.Name, o.Title)
	}
	return nil
}
