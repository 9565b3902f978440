package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	// ErrEmptyTable is returned when a file loads but yields no header row.
	ErrEmptyTable = errors.New("tabular: empty table")
	// ErrUnsupportedFormat is returned for extensions other than csv/xls/xlsx.
	ErrUnsupportedFormat = errors.New("tabular: unsupported file format")
)

// ReadOptions control how a file is loaded.
type ReadOptions struct {
	// Sheet selects the worksheet for xlsx inputs. Ignored for CSV.
	Sheet string
	// SkipRows drops leading rows before the header (report title lines).
	SkipRows int
}

// ReadAny loads a CSV or xlsx file into a Table. CSV encoding and delimiter
// are auto-detected; xlsx reads the named sheet (or the first one when
// Sheet is empty).
func ReadAny(path string, opts ReadOptions) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", "":
		return readCSV(path, opts.SkipRows)
	case ".xlsx", ".xlsm", ".xls":
		return readSheet(path, opts.Sheet, opts.SkipRows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func readCSV(path string, skipRows int) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = decodeToUTF8(raw)

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = sniffDelimiter(raw)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", filepath.Base(path), err)
	}
	return tableFromRecords(records, skipRows)
}

func readSheet(path, sheet string, skipRows int) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, ErrEmptyTable
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return tableFromRecords(rows, skipRows)
}

func tableFromRecords(records [][]string, skipRows int) (*Table, error) {
	if skipRows > 0 {
		if skipRows >= len(records) {
			return nil, ErrEmptyTable
		}
		records = records[skipRows:]
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(strings.Trim(h, `"`))
	}
	return &Table{Headers: headers, Rows: records[1:]}, nil
}

// decodeToUTF8 strips a BOM and re-decodes legacy single-byte exports.
// CRM and ad-platform downloads alternate between utf-8 and cp1252/latin1;
// valid utf-8 passes through untouched.
func decodeToUTF8(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return raw
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		out, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return raw
		}
	}
	return out
}

// sniffDelimiter picks the candidate that splits the first lines into the
// most consistent multi-column shape.
func sniffDelimiter(raw []byte) rune {
	sample := raw
	if len(sample) > 64*1024 {
		sample = sample[:64*1024]
	}
	lines := strings.Split(string(sample), "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	best, bestCols := ',', 1
	for _, cand := range []rune{',', ';', '\t', '|'} {
		cols := fieldCount(lines, cand)
		if cols > bestCols {
			best, bestCols = cand, cols
		}
	}
	return best
}

// fieldCount returns the minimum field count the delimiter yields across
// the sampled lines, 0 when the lines disagree badly.
func fieldCount(lines []string, delim rune) int {
	min := 0
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		r := csv.NewReader(strings.NewReader(ln))
		r.Comma = delim
		r.LazyQuotes = true
		rec, err := r.Read()
		if err != nil {
			continue
		}
		if min == 0 || len(rec) < min {
			min = len(rec)
		}
	}
	return min
}
