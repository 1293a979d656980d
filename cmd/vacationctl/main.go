/*
vacationctl evaluates a vacation plan document without a server.

USAGE:
  vacationctl status   --plan plan.yaml --from 2025-09-01 --to 2025-12-31
  vacationctl ledgers  --plan plan.yaml --as-of 2026-01-01
  vacationctl holidays --year 2026

Plans are the documents produced by GET /api/profiles/{id}/export.
*/
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
