package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadCSVSniffsSemicolon(t *testing.T) {
	path := writeFile(t, "deals.csv", []byte("Data;Etapa;Valor\n2025-09-01;Novo;100\n2025-09-02;Perdido;0\n"))
	tab, err := ReadAny(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Etapa", "Valor"}, tab.Headers)
	require.Equal(t, 2, tab.Len())
	assert.Equal(t, "Novo", tab.Cell(0, 1))
}

func TestReadCSVLegacyEncoding(t *testing.T) {
	// "Criação" in latin1: ç=0xE7, ã=0xE3. Not valid utf-8 as raw bytes.
	raw := []byte("Cria\xe7\xe3o,Valor\n2025-01-01,10\n")
	path := writeFile(t, "legacy.csv", raw)
	tab, err := ReadAny(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Criação", tab.Headers[0])
}

func TestReadCSVSkipRowsAndBOM(t *testing.T) {
	raw := []byte("\xef\xbb\xbfReport title\nperiod: 2025\nData,Custo\n2025-09-01,10\n")
	path := writeFile(t, "report.csv", raw)
	tab, err := ReadAny(path, ReadOptions{SkipRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Custo"}, tab.Headers)
	assert.Equal(t, 1, tab.Len())
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadAny(filepath.Join(t.TempDir(), "nope.csv"), ReadOptions{})
	assert.Error(t, err)
}

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	var wb Workbook
	wb.AddSheet(Sheet{
		Name:    "First",
		Headers: []string{"Date", "Spend"},
		Rows:    [][]any{{"2025-09-01", 150.5}, {"2025-09-02", 0.0}},
	})
	wb.AddSheet(Sheet{
		Name:    "Second",
		Headers: []string{"Only"},
		Rows:    [][]any{{"x"}},
	})
	require.NoError(t, wb.Save(path))

	tab, err := ReadAny(path, ReadOptions{Sheet: "First"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Spend"}, tab.Headers)
	require.Equal(t, 2, tab.Len())
	assert.Equal(t, "2025-09-01", tab.Cell(0, 0))

	tab, err = ReadAny(path, ReadOptions{Sheet: "Second"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, tab.Headers)

	// Unknown sheets are a load error, not a silent empty table.
	_, err = ReadAny(path, ReadOptions{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestWorkbookNoSheets(t *testing.T) {
	var wb Workbook
	assert.Error(t, wb.Save(filepath.Join(t.TempDir(), "empty.xlsx")))
}
