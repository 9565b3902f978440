package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/BLEND_GO/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/hubspot_dataset.csv", cfg.CRMFile)
	assert.Equal(t, "Meta_Completo", cfg.MetaSheet)
	assert.Equal(t, "Google_Completo", cfg.GoogleSheet)
	assert.Equal(t, "Meta Ads", cfg.SocialAccountLabel)
	assert.Equal(t, "Google Ads", cfg.SearchAccountLabel)
	assert.Equal(t, "8080", cfg.Port)

	// Business maps are always present, env or not.
	assert.Equal(t, models.ChannelPaidSocial, cfg.ChannelMap["social pago"])
	assert.Equal(t, models.ChannelPaidSearch, cfg.ChannelMap["pesquisa paga"])
	assert.Equal(t, "Enrollment Completed", cfg.FunnelMap["MATRÍCULA CONCLUÍDA"])
	assert.NotEmpty(t, cfg.CRMColumns.CreatedDate)
	assert.NotEmpty(t, cfg.MetaColumns.Spend)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BLEND_CRM_FILE", "/tmp/export.csv")
	t.Setenv("BLEND_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/export.csv", cfg.CRMFile)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	cfg := Config{LogLevel: "verbose"}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
