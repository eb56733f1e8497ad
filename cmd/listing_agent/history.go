package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/listing-copywriter/internal/db"
	"github.com/jonathan/listing-copywriter/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage saved descriptions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent descriptions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved description with its scores",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved description",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved description",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var (
	historyLimit int
	historyJSON  bool
	historyYes   bool
)

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", db.DefaultHistoryLimit, "Maximum number of entries to show")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the entry as JSON")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Confirm deleting all history")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid description id %q: %w", arg, err)
	}
	return id, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}
	ctx := contextOrBackground(cmd)
	store, err := requireStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	records, err := store.ListRecentDescriptions(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if historyJSON {
		if records == nil {
			records = []db.Description{}
		}
		return writeJSON(cmd.OutOrStdout(), records)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(records)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)
	store, err := requireStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	record, err := store.GetDescription(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load description: %w", err)
	}
	if record == nil {
		return fmt.Errorf("description %s not found", id)
	}
	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), record)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRecord(record)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)
	store, err := requireStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	deleted, err := store.DeleteDescription(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete description: %w", err)
	}
	if !deleted {
		return fmt.Errorf("description %s not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id) //nolint:errcheck
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if !historyYes {
		return fmt.Errorf("refusing to delete all history without --yes")
	}
	ctx := contextOrBackground(cmd)
	store, err := requireStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	n, err := store.ClearDescriptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d descriptions\n", n) //nolint:errcheck
	return nil
}
