// Package dashboards builds the per-platform spend workbooks the blend
// stage later consumes: a daily aggregate sheet, the full processed table,
// and one sheet per observed year.
package dashboards

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/normalize"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

// Result summarizes one dashboard build.
type Result struct {
	Rows         int      `json:"rows"`
	DroppedDates int      `json:"dropped_invalid_dates"`
	Excluded     int      `json:"excluded_rows"`
	OutputFile   string   `json:"output_file"`
	Sheets       []string `json:"sheets"`
}

// row is one processed platform row: the original cells plus its parsed
// date and spend.
type row struct {
	cells []string
	date  time.Time
	spend decimal.Decimal
}

func yearsOf(rows []row) []int {
	seen := make(map[int]struct{})
	for _, r := range rows {
		seen[r.date.Year()] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// fullSheet renders the processed table: original columns plus the derived
// Year, Month and attributed-channel columns.
func fullSheet(name string, headers []string, rows []row, channelLabel string) tabular.Sheet {
	out := tabular.Sheet{
		Name:    name,
		Headers: append(append([]string{}, headers...), "Year", "Month", "Attributed_Channel"),
	}
	for _, r := range rows {
		cells := make([]any, 0, len(headers)+3)
		for i := range headers {
			if i < len(r.cells) {
				cells = append(cells, r.cells[i])
			} else {
				cells = append(cells, "")
			}
		}
		cells = append(cells, r.date.Year(), int(r.date.Month()), channelLabel)
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func yearSheets(prefix string, headers []string, rows []row, channelLabel string) []tabular.Sheet {
	var sheets []tabular.Sheet
	for _, y := range yearsOf(rows) {
		var sub []row
		for _, r := range rows {
			if r.date.Year() == y {
				sub = append(sub, r)
			}
		}
		sheets = append(sheets, fullSheet(fmt.Sprintf("%s_%d", prefix, y), headers, sub, channelLabel))
	}
	return sheets
}

func saveWorkbook(dir, filename string, sheets []tabular.Sheet) (string, []string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create dashboard dir: %w", err)
	}
	var wb tabular.Workbook
	names := make([]string, 0, len(sheets))
	for _, s := range sheets {
		wb.AddSheet(s)
		names = append(names, s.Name)
	}
	path := filepath.Join(dir, filename)
	if err := wb.Save(path); err != nil {
		return "", nil, err
	}
	return path, names, nil
}

// resolveIndex finds a column by candidates against normalized headers and
// returns its index, -1 on a miss.
func resolveIndex(headers []string, candidates []string) int {
	normed := make([]string, len(headers))
	for i, h := range headers {
		normed[i] = normalize.ColumnName(h)
	}
	name, ok := tabular.FindColumn(normed, candidates)
	if !ok {
		return -1
	}
	for i, h := range normed {
		if h == name {
			return i
		}
	}
	return -1
}
