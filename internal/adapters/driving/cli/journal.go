package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the operation journal",
	Long: `Every multi-step mutation records its steps in a local journal.
Use it to find documents a failed update left checked out.`,
}

var journalLimit int

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent journal entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalDanglingCmd = &cobra.Command{
	Use:   "dangling",
	Short: "List documents left checked out",
	Args:  cobra.NoArgs,
	RunE:  runJournalDangling,
}

func init() {
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 50, "maximum number of entries")
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalDanglingCmd)
	rootCmd.AddCommand(journalCmd)
}

func runJournalList(cmd *cobra.Command, _ []string) error {
	js, err := journal()
	if err != nil {
		return err
	}
	if !js.Enabled() {
		cmd.Println("Journal is disabled (set journal = true).")
		return nil
	}

	entries, err := js.Recent(commandContext(cmd), journalLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No journal entries.")
		return nil
	}
	for _, e := range entries {
		printEntry(cmd, e)
	}
	return nil
}

func runJournalDangling(cmd *cobra.Command, _ []string) error {
	js, err := journal()
	if err != nil {
		return err
	}
	if !js.Enabled() {
		cmd.Println("Journal is disabled (set journal = true).")
		return nil
	}

	entries, err := js.Dangling(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No documents left checked out.")
		return nil
	}
	cmd.Println("Checked out without a later check-in:")
	for _, e := range entries {
		printEntry(cmd, e)
	}
	return nil
}

func printEntry(cmd *cobra.Command, e domain.JournalEntry) {
	cmd.Printf("%s  %-11s  doc %-6d  %-9s  %s",
		e.At.Local().Format(time.DateTime), e.Operation, e.DocNumber, e.Step, e.Status)
	if e.Error != "" {
		cmd.Printf("  %s", e.Error)
	}
	cmd.Println()
}
