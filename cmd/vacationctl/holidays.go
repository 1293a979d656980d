package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/holidays"
)

var holidayYear int

// holidaysCmd lists the bundled holidays, or a plan's own list with --plan.
var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List Danish public holidays for a year",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list := holidays.Danish(holidayYear)
		if settings.GetString("plan") != "" {
			plan, err := loadPlan()
			if err != nil {
				return err
			}
			list = list[:0]
			for _, h := range plan.Holidays {
				if h.Date.Year() == holidayYear {
					list = append(list, h)
				}
			}
		}

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "DATE\tDAY\tNAME\tSOURCE\tENABLED")
		for _, h := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", h.Date, h.Date.Weekday().String()[:3], h.Name, h.Source, h.Enabled)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(holidaysCmd)

	holidaysCmd.Flags().IntVarP(&holidayYear, "year", "y", generic.Today().Year(), "Calendar year.")
}
