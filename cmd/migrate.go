package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"library-manager/core/reconcile"
	"library-manager/feature/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	replaceEntry  bool
	facetsFlag    string
	dryRunMigrate bool
	yesConfirm    bool
)

// migrateCmd migrates one library entry onto another.
var migrateCmd = &cobra.Command{
	Use:   "migrate <old-id> <new-id>",
	Short: "Migrate a library entry onto an entry from another source",
	Long: `Carry episode progress, categories, tracking and the custom cover of
the old entry over to the new one. The plan is always printed first.

Without --facets the selection stored by the last replace migration is used,
falling back to MIGRATION_DEFAULT_FACETS.

Examples:
  # Show what would change
  migrate 12 34 --dry-run

  # Copy: both entries stay in the library
  migrate 12 34 --facets episodes,categories

  # Same selection by position
  migrate 12 34 --facets 0,1

  # Replace: the old entry leaves the library, no prompt
  migrate 12 34 --replace --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&replaceEntry, "replace", false, "Remove the old entry from the library")
	migrateCmd.Flags().StringVar(&facetsFlag, "facets", "", "Comma-separated facet names or positions: episodes (0), categories (1), tracks (2), custom_cover (3), all, none")
	migrateCmd.Flags().BoolVar(&dryRunMigrate, "dry-run", false, "Print the plan without changing anything")
	migrateCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	RootCmd.AddCommand(migrateCmd)
}

func parseEntryIDs(args []string) (oldID, newID int64, err error) {
	oldID, err = strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid old entry id %q", args[0])
	}
	newID, err = strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid new entry id %q", args[1])
	}
	return oldID, newID, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	oldID, newID, err := parseEntryIDs(args)
	if err != nil {
		return err
	}

	var facets *reconcile.FacetSet
	if cmd.Flags().Changed("facets") {
		set, err := reconcile.ParseFacetSet(facetsFlag)
		if err != nil {
			return err
		}
		facets = &set
	}

	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	l := env.log

	in := migration.MigrateInput{OldID: oldID, NewID: newID, Replace: replaceEntry, Facets: facets, DryRun: true}

	// Step 1: plan (always runs, writes nothing)
	l.Info("Planning migration...", zap.Int64("old_id", oldID), zap.Int64("new_id", newID))
	plan, err := env.migration.Migrate(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to plan migration: %w", err)
	}
	printMigrationPlan(l, plan)

	if dryRunMigrate {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 2: apply, once confirmed
	if !confirmMigration(os.Stdin, os.Stdout, replaceEntry) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	in.DryRun = false
	plan, err = env.migration.Migrate(ctx, in)
	if err != nil {
		if plan != nil {
			printMigrationPlan(l, plan)
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	l.Info("Migration complete",
		zap.Int("actions", len(plan.Actions)),
		zap.Bool("sync_failed", plan.SyncFailed),
	)
	return nil
}

// printMigrationPlan logs the plan summary and each planned action.
func printMigrationPlan(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary
	l.Info("Migration plan",
		zap.Int64("old_id", plan.OldID),
		zap.Int64("new_id", plan.NewID),
		zap.Bool("replace", plan.Replace),
		zap.Stringer("facets", plan.Facets),
		zap.Ints("positions", plan.Facets.Positions()),
		zap.Int("fetched_episodes", plan.FetchedEpisodes),
		zap.Int("episodes_updated", s.EpisodesUpdated),
		zap.Int("episodes_seen", s.EpisodesSeen),
		zap.Int("categories", s.Categories),
		zap.Int("tracks_migrated", s.TracksMigrated),
		zap.Int("tracks_dropped", s.TracksDropped),
		zap.Bool("cover_copied", s.CoverCopied),
	)
	for _, action := range plan.Actions {
		l.Info("Planned action",
			zap.String("type", string(action.Type)),
			zap.String("reason", action.Reason),
		)
	}
}

// confirmMigration prompts the user for confirmation or uses --yes flag.
func confirmMigration(in io.Reader, out io.Writer, replace bool) bool {
	if yesConfirm {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	prompt := "\nType 'yes' to copy onto the new entry: "
	if replace {
		prompt = "\n⚠️  Type 'yes' to replace the old entry: "
	}
	fmt.Fprint(out, prompt)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
