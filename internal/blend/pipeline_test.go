package blend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

// pipelineConfig points every path into a temp dir and writes a small but
// complete CRM export plus a Meta spend workbook. The Google file is left
// missing on purpose to exercise degradation.
func pipelineConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := testConfig(t)
	dir := t.TempDir()

	cfg.CRMFile = filepath.Join(dir, "hubspot.csv")
	crm := "Data,Data de fechamento,Unidade desejada,Pipeline,Etapa do negócio,Valor na moeda da empresa,Fonte original do tráfego,Detalhamento da fonte original do tráfego 1,Detalhamento da fonte original do tráfego 2\n" +
		"2025-09-01,2025-10-10,Downtown,Street Units,MATRÍCULA CONCLUÍDA (X),\"R$ 2.500,00\",Social pago,Campanha de Marca,\n" +
		"2025-09-01,,Downtown,Street Units,NOVO NEGÓCIO (X),\"1.000,00\",Social pago,Campanha de Marca,\n" +
		"2025-09-01,,Uptown,Street Units,NOVO NEGÓCIO (X),500,Pesquisa paga,,curso de ingles\n" +
		"2025-09-02,,Uptown,Street Units,VISITA AGENDADA (X),0,Organic Search,,\n" +
		"bad-date,,Uptown,Street Units,NOVO NEGÓCIO (X),0,Social pago,,\n"
	require.NoError(t, os.WriteFile(cfg.CRMFile, []byte(crm), 0o644))

	cfg.MetaFile = filepath.Join(dir, "meta_dashboard.xlsx")
	var meta tabular.Workbook
	meta.AddSheet(tabular.Sheet{
		Name:    cfg.MetaSheet,
		Headers: []string{"Data", "Campanha", "Investimento"},
		Rows: [][]any{
			{"2025-09-01", "Campanha de Marca", "200"},
			{"2025-09-01", "Outra Campanha", "999"},
		},
	})
	require.NoError(t, meta.Save(cfg.MetaFile))

	cfg.GoogleFile = filepath.Join(dir, "missing_google.xlsx")
	cfg.OutputDir = filepath.Join(dir, "out")
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := pipelineConfig(t)
	sum, err := Run(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, 5, sum.RowsLoaded)
	assert.Equal(t, 1, sum.DroppedDates)
	assert.Equal(t, 1, sum.FilteredChannel)
	assert.Equal(t, 3, sum.PaidDeals)
	assert.Equal(t, 1, sum.Enrollments)

	// Two social deals share the 200 campaign match; the search deal finds
	// nothing because the Google file is absent.
	assert.Equal(t, 200.0, sum.MatchedSpend)
	assert.Equal(t, 200.0, sum.ProratedSpend)
	assert.Equal(t, 4000.0, sum.DealValue)

	assert.Equal(t, []string{SheetGranular, SheetAggregate, SheetEnrollment}, sum.Sheets)
	require.FileExists(t, sum.OutputFile)

	tab, err := tabular.ReadAny(sum.OutputFile, tabular.ReadOptions{Sheet: SheetGranular})
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())
	assert.Contains(t, tab.Headers, "Deal_ID")
	assert.Contains(t, tab.Headers, "Enrollments_25_2_Low")

	_, err = tabular.ReadAny(sum.OutputFile, tabular.ReadOptions{Sheet: SheetEnrollment})
	assert.NoError(t, err)
}

func TestRunMissingCRMFileIsFatal(t *testing.T) {
	cfg := pipelineConfig(t)
	cfg.CRMFile = filepath.Join(t.TempDir(), "nope.csv")
	_, err := Run(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}

func TestRunMissingRequiredColumnIsFatal(t *testing.T) {
	cfg := pipelineConfig(t)
	require.NoError(t, os.WriteFile(cfg.CRMFile, []byte("foo,bar\n1,2\n"), 0o644))
	_, err := Run(context.Background(), cfg, discardLogger())
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestRunOmitsEnrollmentSheetWithoutEnrollments(t *testing.T) {
	cfg := pipelineConfig(t)
	crm := "Data,Etapa do negócio,Fonte original do tráfego\n" +
		"2025-09-01,NOVO NEGÓCIO,Social pago\n"
	require.NoError(t, os.WriteFile(cfg.CRMFile, []byte(crm), 0o644))

	sum, err := Run(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{SheetGranular, SheetAggregate}, sum.Sheets)

	_, err = tabular.ReadAny(sum.OutputFile, tabular.ReadOptions{Sheet: SheetEnrollment})
	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	cfg := pipelineConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, cfg, discardLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
