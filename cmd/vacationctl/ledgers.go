package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

var (
	asOfString    string
	throughString string
)

// ledgersCmd prints a balance snapshot.
var ledgersCmd = &cobra.Command{
	Use:   "ledgers",
	Short: "Print every vacation year's ledger at the start of a day",
	Long: `Print every vacation year's ledger at the start of --as-of.

With --through, which takes precedence, the ledgers are shown at the end of that day instead, after
its taken day is charged and before any period expires the next morning.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flag, value := "as-of", asOfString
		if throughString != "" {
			flag, value = "through", throughString
		}
		day, err := generic.ParseDate(value)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", flag, err)
		}

		plan, err := loadPlan()
		if err != nil {
			return err
		}

		ledgers := plan.Snapshot(day)
		label := "at"
		if flag == "through" {
			ledgers = plan.Through(day)
			label = "after"
		}
		out := cmd.OutOrStdout()
		if len(ledgers) == 0 {
			fmt.Fprintf(out, "no ledgers: %s is before employment start %s\n", day, plan.Profile.Config.EmploymentStart)
			return nil
		}

		tw := newTable(out)
		fmt.Fprintln(tw, "PERIOD\tUSABLE UNTIL\tEARNED\tEXTRA\tINITIAL\tTRANSFERRED\tUSED\tLOST\tBALANCE\tSTATE")
		for i := range ledgers {
			l := &ledgers[i]
			state := "open"
			if l.Expired {
				state = "expired"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				l.Period, l.Period.UsableEnd(),
				days(l.Earned), days(l.Extra), days(l.Initial), days(l.Transferred),
				days(l.Used), days(l.Lost), days(l.Balance()), state)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\ntotal balance %s %s: %s\n", label, day, days(vacation.TotalBalance(ledgers)))
		return nil
	},
}

func days(a generic.Amount) string {
	return a.Value.StringFixed(2)
}

func init() {
	rootCmd.AddCommand(ledgersCmd)

	ledgersCmd.Flags().StringVarP(&asOfString, "as-of", "a", generic.Today().String(), "Snapshot date (YYYY-MM-DD).")
	ledgersCmd.Flags().StringVar(&throughString, "through", "", "Show ledgers at the end of this day (YYYY-MM-DD).")
}
