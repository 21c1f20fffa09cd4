package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
)

func newSavesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			summaries, err := sess.store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No saves yet.")
				return nil
			}
			now := time.Now()
			for _, s := range summaries {
				line := s.Describe(now)
				if s.EndingID != "" {
					line += "  ending " + s.EndingID
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newEndingsCmd() *cobra.Command {
	var achievements bool
	cmd := &cobra.Command{
		Use:   "endings",
		Short: "List the endings a run can reach",
		RunE: func(cmd *cobra.Command, args []string) error {
			header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
			cell := lipgloss.NewStyle().Padding(0, 1)
			t := table.New().
				Border(lipgloss.NormalBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return header
					}
					return cell
				})
			if achievements {
				t.Headers("ID", "Name", "Description")
				for _, a := range game.BuiltInAchievements() {
					t.Row(a.ID, a.Name, a.Description)
				}
			} else {
				t.Headers("Type", "ID", "Name", "Condition")
				for _, e := range game.BuiltInEndings() {
					t.Row(string(e.Type), e.ID, e.Name, e.ConditionText)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&achievements, "achievements", false, "list achievements instead")
	return cmd
}
