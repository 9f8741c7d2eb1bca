package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tablemend/tablemend/internal/diff"
	"github.com/tablemend/tablemend/internal/table"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	Format string
	Kind   string
	Status string
	Search string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	opts := &CompareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <original> <updated>",
		Short: "Compare two delimited-text files",
		Long: `Compare two delimited-text files position by position and print every
difference with its row position, column, and classification.`,
		Example: `  # Show all differences as a table
  tablemend compare before.csv after.csv

  # Only modified cells, as JSON
  tablemend compare before.csv after.csv --kind modified --format json

  # Differences mentioning a value
  tablemend compare before.csv after.csv --search "acme"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Filter by kind: added, removed, modified")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status: pending, accepted, rejected")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Case-insensitive substring match on column or values")

	return cmd
}

func runCompare(cmd *cobra.Command, originalPath, updatedPath string, opts *CompareOptions) error {
	kind, ok := diff.ParseKind(opts.Kind)
	if !ok {
		return fmt.Errorf("invalid --kind value %q", opts.Kind)
	}
	status, ok := diff.ParseStatus(opts.Status)
	if !ok {
		return fmt.Errorf("invalid --status value %q", opts.Status)
	}

	original, updated, err := readTables(originalPath, updatedPath)
	if err != nil {
		return err
	}

	store := diff.NewStore(diff.Compare(original, updated))
	diffs := store.Filter(kind, status, opts.Search)
	stats := store.Stats()

	w := cmd.OutOrStdout()
	if err := renderDifferences(w, diffs, opts.Format); err != nil {
		return err
	}

	if opts.Format == "table" {
		fmt.Fprintf(w, "%d differences (%d added, %d removed, %d modified)\n",
			stats.Total, stats.Added, stats.Removed, stats.Modified)
	}
	return nil
}

// NewApplyCommand creates the apply command, which accepts every
// difference and writes the corrected table.
func NewApplyCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "apply <original> <updated>",
		Short: "Accept all differences and write the corrected table",
		Long: `Compare two files, accept every difference, and write the corrected
table. With no --output, the result goes to stdout.`,
		Example: `  tablemend apply before.csv after.csv --output corrected.csv`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the corrected table to this file")

	return cmd
}

func runApply(cmd *cobra.Command, originalPath, updatedPath, output string) error {
	original, updated, err := readTables(originalPath, updatedPath)
	if err != nil {
		return err
	}

	diffs := diff.Compare(original, updated)
	for i := range diffs {
		diffs[i].Status = diff.StatusAccepted
	}

	out := table.Serialize(diff.Apply(original, diffs))

	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	if err := os.WriteFile(output, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d differences applied)\n", output, len(diffs))
	return nil
}

// readTables loads and parses both input files. Both reads finish
// before either table is parsed.
func readTables(originalPath, updatedPath string) (table.Table, table.Table, error) {
	originalRaw, err := os.ReadFile(originalPath)
	if err != nil {
		return table.Table{}, table.Table{}, fmt.Errorf("reading %s: %w", originalPath, err)
	}
	updatedRaw, err := os.ReadFile(updatedPath)
	if err != nil {
		return table.Table{}, table.Table{}, fmt.Errorf("reading %s: %w", updatedPath, err)
	}
	return table.Parse(string(originalRaw)), table.Parse(string(updatedRaw)), nil
}
