package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	pkgio "github.com/autosplice/autosplice/pkg/io"
)

// symbolsCommand creates the symbols command group for working with JSON
// relocation registry files.
func (c *CLI) symbolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Work with symbol relocation registry files",
		Long: `Commands for listing and summarizing the JSON relocation registries
produced by the prefixing step.`,
	}

	cmd.AddCommand(c.symbolsListCommand())
	cmd.AddCommand(c.symbolsCountCommand())

	return cmd
}

// symbolsListCommand lists every recorded relocation as a table or JSON.
func (c *CLI) symbolsListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <registry.json>",
		Short: "List the recorded symbol relocations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return pkgio.WriteJSON(reg, os.Stdout)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Kind", "Original", "Relocated")

			for _, rel := range reg.Classes() {
				table.Append("class", rel.From, rel.To)
			}
			for _, rel := range reg.Functions() {
				table.Append("function", rel.From, rel.To)
			}

			table.Render()
			fmt.Printf("\nPrefix: %s  Total: %d\n", reg.Prefix(), reg.Count())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON instead of a table")

	return cmd
}

// symbolsCountCommand prints the total number of recorded relocations.
func (c *CLI) symbolsCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count <registry.json>",
		Short: "Print the number of recorded relocations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			fmt.Println(reg.Count())
			return nil
		},
	}
}
