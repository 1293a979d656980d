package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

var statusFrom, statusTo string
var selectedOnly bool

// statusCmd classifies every day of a date range.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of each day in a range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		from, err := generic.ParseDate(statusFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := generic.ParseDate(statusTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		if to.Before(from) {
			return generic.ErrInvalidPeriod
		}

		plan, err := loadPlan()
		if err != nil {
			return err
		}

		statuses := plan.Classify(from, to)
		out := cmd.OutOrStdout()
		color := useColor(out)

		counts := make(map[vacation.Status]int)
		tw := newTable(out)
		fmt.Fprintln(tw, "DATE\tDAY\tSTATUS")
		for _, d := range vacation.DateRange(from, to).Sorted() {
			s := statuses[d]
			counts[s]++
			if selectedOnly && !s.IsSelected() {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d, d.Weekday().String()[:3], colorStatus(s, color))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nselected: %d ok, %d warning, %d overdrawn\n",
			counts[vacation.StatusSelectedOK],
			counts[vacation.StatusSelectedWarning],
			counts[vacation.StatusSelectedOverdrawn])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	year := generic.Today().Year()
	statusCmd.Flags().StringVarP(&statusFrom, "from", "f", generic.StartOfYear(year).String(), "First day (YYYY-MM-DD).")
	statusCmd.Flags().StringVarP(&statusTo, "to", "t", generic.EndOfYear(year).String(), "Last day (YYYY-MM-DD).")
	statusCmd.Flags().BoolVar(&selectedOnly, "selected", false, "Only print taken days.")
}
