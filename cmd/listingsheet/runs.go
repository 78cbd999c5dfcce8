package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent processing runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}

		tw := tablewriter.NewWriter(cmd.OutOrStdout())
		tw.SetAutoWrapText(false)
		tw.SetHeader([]string{"created", "trace id", "source", "status", "rows", "suspect", "ms", "output / error"})
		for _, r := range runs {
			detail := r.OutputPath
			if r.Error != "" {
				detail = r.Error
			}
			tw.Append([]string{
				r.CreatedAt,
				r.TraceID,
				r.Source,
				string(r.Status),
				strconv.Itoa(r.Rows),
				strconv.Itoa(r.InvalidPhones),
				strconv.FormatInt(r.DurationMs, 10),
				detail,
			})
		}
		tw.Render()
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to show")
}
