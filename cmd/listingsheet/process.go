package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"listingsheet/internal"
	"listingsheet/internal/pipeline"
	"listingsheet/internal/util"
)

var (
	processInput   string
	processType    string
	processCharset string
	processOutput  string
	processPreview bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert one listing file (or stdin) into Data.xlsx",
	Long: `Reads a pasted listing from a file or stdin and writes the cleaned table.

Examples:
  listingsheet process --input dubai.txt
  pbpaste | listingsheet process --input - --preview
  listingsheet process --input saved.html --output out/dubai.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var inputType internal.InputType
		if processType != "" {
			t, err := pipeline.ParseInputType(processType)
			if err != nil {
				return err
			}
			inputType = t
		}

		text, blob, err := pipeline.ReadInput(processInput, inputType, processCharset, cmd.InOrStdin())
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		proc := pipeline.NewProcessingService(db, cfg)
		if detect := pipeline.DetectListing(text, proc.Layout()); !detect.IsListing && detect.Reason != "empty" {
			zap.L().Warn("input does not look like a directory listing", zap.String("reason", detect.Reason))
		}

		res, err := proc.Process(ctx, pipeline.Request{Source: "cli", Text: text, InputHash: util.HashBytes(blob)})
		if err != nil {
			return eris.Wrap(err, "process")
		}

		if processPreview {
			printTable(cmd.OutOrStdout(), res.Table)
		}

		output := processOutput
		if output == "" {
			output = filepath.Join(cfg.OutputDir, pipeline.DefaultFileName)
		}
		if err := pipeline.ExportTableXLSX(res.Table, output, proc.LinkLabel()); err != nil {
			return err
		}
		if err := db.SetRunOutput(ctx, res.TraceID, output); err != nil {
			zap.L().Warn("record output path", zap.Error(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "processed rows=%d suspect_phones=%d output=%s trace_id=%s\n",
			res.Table.RowCount(), res.SuspectPhones, output, res.TraceID)
		return nil
	},
}

func printTable(w io.Writer, table *internal.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(table.Headers())
	tw.SetAutoWrapText(false)
	tw.AppendBulk(table.Rows())
	tw.Render()
}

func init() {
	processCmd.Flags().StringVar(&processInput, "input", "-", "listing file path, - for stdin")
	processCmd.Flags().StringVar(&processType, "type", "", "text|html|eml|pdf (default: from extension)")
	processCmd.Flags().StringVar(&processCharset, "charset", "", "source charset of text input, e.g. windows-1256")
	processCmd.Flags().StringVar(&processOutput, "output", "", "output xlsx path (default: <output_dir>/Data.xlsx)")
	processCmd.Flags().BoolVar(&processPreview, "preview", false, "print the table before exporting")
}
