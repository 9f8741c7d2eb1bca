// Package cli implements the tablemend command line interface.
package cli

import "github.com/spf13/cobra"

// NewRootCommand builds the tablemend command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tablemend",
		Short: "Compare and reconcile delimited-text tables",
		Long: `tablemend compares two delimited-text tables position by position,
reports every cell-level and row-level difference, and can materialize a
corrected table from the differences you choose to accept.

Rows are matched strictly by position (there is no key-based matching)
and fields are split on commas with no quoted-field support.`,
		SilenceUsage: true,
	}

	root.AddCommand(NewCompareCommand())
	root.AddCommand(NewApplyCommand())
	root.AddCommand(NewVersionCommand())

	return root
}

// NewVersionCommand reports version information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("tablemend v0.1.0")
		},
	}
}
