package blend

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func TestLoadSpendAggregatesByDayAndKey(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "meta.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"Data,Campanha,Investimento\n"+
			"2025-09-01,Campanha de Marca,100.50\n"+
			"2025-09-01,CAMPANHA DE MARCA,50\n"+
			"2025-09-01,Retargeting,10\n"+
			"2025-09-02,Campanha de Marca,30\n"+
			"bad date,Campanha de Marca,999\n"), 0o644))

	st := LoadSpend(path, "", cfg.MetaColumns, discardLogger())
	require.Len(t, st, 3)

	day1 := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)

	// Casing folds into one key, so the two day-1 brand rows sum.
	v, _ := decimal.NewFromString("150.5")
	assert.True(t, st.Lookup(day1, "campanha de marca").Equal(v))
	assert.True(t, st.Lookup(day1, "retargeting").Equal(decimal.NewFromInt(10)))
	assert.True(t, st.Lookup(day2, "campanha de marca").Equal(decimal.NewFromInt(30)))
	assert.True(t, st.Lookup(day2, "retargeting").IsZero())
}

func TestLoadSpendMissingFileDegrades(t *testing.T) {
	cfg := testConfig(t)
	st := LoadSpend(filepath.Join(t.TempDir(), "nope.xlsx"), "Meta_Completo", cfg.MetaColumns, discardLogger())
	assert.Empty(t, st)
	assert.True(t, st.Lookup(time.Now().UTC(), "anything").IsZero())
}

func TestLoadSpendUnresolvedColumnsDegrade(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "odd.csv")
	require.NoError(t, os.WriteFile(path, []byte("foo,bar\n1,2\n"), 0o644))

	st := LoadSpend(path, "", cfg.MetaColumns, discardLogger())
	assert.Empty(t, st)
}
