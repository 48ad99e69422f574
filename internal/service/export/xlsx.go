package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the worksheet every new workbook starts with.
const defaultSheet = "Sheet1"

// WriteXLSX writes every table to its own worksheet of a single workbook.
// The first table becomes the active sheet.
func WriteXLSX(w io.Writer, tables ...Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("write xlsx: no tables")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("create sheet %s: %w", table.Name, err)
		}

		if err := writeSheet(f, table); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, table Table) error {
	lines := append([][]string{table.Header}, table.Rows...)
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("locate row %d: %w", i+1, err)
		}
		values := toCells(line)
		if err := f.SetSheetRow(table.Name, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", table.Name, i+1, err)
		}
	}

	if err := f.SetPanes(table.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze %s header: %w", table.Name, err)
	}
	return nil
}
