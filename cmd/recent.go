package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/mail-triage/config"
	"github.com/dhcgn/mail-triage/history"
)

var recentCount int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent classifications from the history file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}

		entries, err := history.Recent(dir, recentCount)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			pterm.Info.Println("No classifications recorded yet")
			return nil
		}

		rows := pterm.TableData{{"Time", "Score", "Flag", "Sender", "Subject"}}
		for _, e := range entries {
			score := strconv.Itoa(e.Score)
			if e.Error != "" {
				score = "-"
			}
			rows = append(rows, []string{
				e.Time.Format("2006-01-02 15:04"),
				score,
				e.Classification,
				e.Sender,
				e.Subject,
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return fmt.Errorf("render history table: %w", err)
		}
		return nil
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentCount, "count", "n", 10, "Number of entries to show")
	rootCmd.AddCommand(recentCmd)
}
