package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"listingsheet/internal"
)

const (
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	DefaultFileName  = "Data.xlsx"
	DefaultLinkLabel = "Open WhatsApp"

	linkColor = "0000FF"
)

// WriteTableXLSX writes table as a single sheet workbook. Cells of the
// WhatsApp Link column become hyperlinks showing label.
func WriteTableXLSX(w io.Writer, table *internal.Table, label string) error {
	f, err := buildWorkbook(table, label)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func ExportTableXLSX(table *internal.Table, outputPath, label string) error {
	f, err := buildWorkbook(table, label)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}
	if err := f.SaveAs(outputPath); err != nil {
		return eris.Wrapf(err, "export: save %s", outputPath)
	}
	return nil
}

func buildWorkbook(table *internal.Table, label string) (*excelize.File, error) {
	if label == "" {
		label = DefaultLinkLabel
	}

	f := excelize.NewFile()
	if err := fillWorkbook(f, table, label); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, table *internal.Table, label string) error {
	sheet := f.GetSheetName(0)

	for i, h := range table.Headers() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := setCell(f, sheet, cell, h); err != nil {
			return err
		}
	}

	linkCol := table.Index(ColumnWhatsApp)
	linkStyle := 0
	if linkCol >= 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: linkColor, Underline: "single"}})
		if err != nil {
			return eris.Wrap(err, "export: link style")
		}
		linkStyle = style
	}

	for r, row := range table.Rows() {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if value == "" {
				continue
			}
			if c != linkCol {
				if err := setCell(f, sheet, cell, value); err != nil {
					return err
				}
				continue
			}
			if err := setCell(f, sheet, cell, label); err != nil {
				return err
			}
			if err := f.SetCellHyperLink(sheet, cell, value, "External"); err != nil {
				return eris.Wrapf(err, "export: hyperlink %s", cell)
			}
			if err := f.SetCellStyle(sheet, cell, cell, linkStyle); err != nil {
				return eris.Wrapf(err, "export: link style %s", cell)
			}
		}
	}
	return nil
}

// setCell writes a string cell. Values over the xlsx cell limit are refused
// rather than truncated.
func setCell(f *excelize.File, sheet, cell, value string) error {
	if n := utf8.RuneCountInString(value); n > excelize.TotalCellChars {
		return eris.Errorf("export: cell %s holds %d characters, limit is %d", cell, n, excelize.TotalCellChars)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return eris.Wrapf(err, "export: cell %s", cell)
	}
	return nil
}
