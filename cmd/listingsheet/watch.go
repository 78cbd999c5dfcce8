package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"listingsheet/internal/listener"
)

var watchOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process listing files dropped into the inbox directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := listener.NewService(db, cfg)
		if !watchOnce {
			return svc.Run(cmd.Context())
		}

		res, err := svc.RunCycle(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "watch cycle seen=%d processed=%d skipped=%d failed=%d\n",
			res.Seen, res.Processed, res.Skipped, res.Failed)
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "run a single inbox pass and exit")
}
