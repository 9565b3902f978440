package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one named tab of an output workbook. Cells keep their Go types
// so numbers stay numbers in the spreadsheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Workbook accumulates sheets in order and writes them in one shot, so a
// failed save never leaves a partial file behind.
type Workbook struct {
	sheets []Sheet
}

// AddSheet appends a sheet. Order of calls is the tab order in the file.
func (w *Workbook) AddSheet(s Sheet) { w.sheets = append(w.sheets, s) }

// Save writes the workbook to path. At least one sheet is required.
func (w *Workbook) Save(path string) error {
	if len(w.sheets) == 0 {
		return fmt.Errorf("write workbook %s: no sheets", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range w.sheets {
		if i == 0 {
			// excelize seeds every file with "Sheet1"
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", s.Name, err)
			}
		} else {
			if _, err := f.NewSheet(s.Name); err != nil {
				return fmt.Errorf("create sheet %q: %w", s.Name, err)
			}
		}
		header := make([]any, len(s.Headers))
		for j, h := range s.Headers {
			header[j] = h
		}
		if err := setRow(f, s.Name, 1, header); err != nil {
			return err
		}
		for r, row := range s.Rows {
			if err := setRow(f, s.Name, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d of %q: %w", row, sheet, err)
	}
	return nil
}
