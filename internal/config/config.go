package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/AngelCh415/BLEND_GO/internal/models"
)

// Config carries every knob the pipeline needs. It is built once by Load
// and passed by value; nothing in the pipeline mutates it afterwards.
type Config struct {
	// Inputs
	CRMFile     string `envconfig:"BLEND_CRM_FILE" default:"data/hubspot_dataset.csv"`
	MetaFile    string `envconfig:"BLEND_META_FILE" default:"outputs/meta_dataset_dashboard.xlsx"`
	MetaSheet   string `envconfig:"BLEND_META_SHEET" default:"Meta_Completo"`
	GoogleFile  string `envconfig:"BLEND_GOOGLE_FILE" default:"outputs/google_dashboard.xlsx"`
	GoogleSheet string `envconfig:"BLEND_GOOGLE_SHEET" default:"Google_Completo"`

	// Raw platform exports consumed by the dashboard builders.
	MetaRawFile   string `envconfig:"BLEND_META_RAW_FILE" default:"data/meta_dataset.csv"`
	GoogleRawFile string `envconfig:"BLEND_GOOGLE_RAW_FILE" default:"data/googleads_dataset.csv"`

	// Outputs
	OutputDir    string `envconfig:"BLEND_OUTPUT_DIR" default:"output"`
	DashboardDir string `envconfig:"BLEND_DASHBOARD_DIR" default:"outputs"`
	OutputBase   string `envconfig:"BLEND_OUTPUT_BASE" default:"blend_dataset"`

	// Report labels
	SocialAccountLabel string `envconfig:"BLEND_SOCIAL_ACCOUNT_LABEL" default:"Meta Ads"`
	SearchAccountLabel string `envconfig:"BLEND_SEARCH_ACCOUNT_LABEL" default:"Google Ads"`
	ManagementArea     string `envconfig:"BLEND_MANAGEMENT_AREA" default:"Legacy Management"`

	// Serve mode
	Port     string `envconfig:"BLEND_PORT" default:"8080"`
	LogLevel string `envconfig:"BLEND_LOG_LEVEL" default:"info"`

	// Business rules, fixed at load time (not env-tunable): which normalized
	// traffic sources count as paid media, and how raw CRM stages map onto
	// the reporting funnel.
	ChannelMap map[string]models.Channel `ignored:"true"`
	FunnelMap  map[string]string         `ignored:"true"`

	// Column candidates per source, in resolver priority order and in
	// normalized (snake) header form.
	CRMColumns    CRMColumns   `ignored:"true"`
	MetaColumns   SpendColumns `ignored:"true"`
	GoogleColumns SpendColumns `ignored:"true"`
}

// CRMColumns lists candidate header names for each derived CRM field.
type CRMColumns struct {
	CreatedDate   []string
	CloseDate     []string
	Unit          []string
	Pipeline      []string
	Stage         []string
	DealValue     []string
	TrafficSource []string
	SourceDetail1 []string
	SourceDetail2 []string
}

// SpendColumns lists candidate headers for a platform spend dashboard.
type SpendColumns struct {
	Date     []string
	Spend    []string
	Campaign []string
}

// Load builds the default Config and applies BLEND_* env overrides.
func Load() (Config, error) {
	cfg := Config{
		ChannelMap: map[string]models.Channel{
			"social pago": models.ChannelPaidSocial,
			"paid social": models.ChannelPaidSocial,
			"facebook":    models.ChannelPaidSocial,
			"instagram":   models.ChannelPaidSocial,
			"linkedin":    models.ChannelPaidSocial,

			"pesquisa paga": models.ChannelPaidSearch,
			"cpc":           models.ChannelPaidSearch,
		},
		FunnelMap: map[string]string{
			"NOVO NEGÓCIO":            "New Deal",
			"NEGÓCIO EM QUALIFICAÇÃO": "Qualifying",
			"VISITA AGENDADA":         "Visit Scheduled",
			"VISITA REALIZADA":        "Visit Completed",
			"LISTA DE ESPERA":         "Waitlist",
			"NEGÓCIO EM PAUSA":        "Paused",
			"NEGÓCIO PERDIDO":         "Lost",
			"MATRÍCULA CONCLUÍDA":     "Enrollment Completed",
		},
		CRMColumns: CRMColumns{
			CreatedDate:   []string{"data", "data_de_criacao", "createdate", "create_date"},
			CloseDate:     []string{"data_de_fechamento", "closedate", "close_date"},
			Unit:          []string{"unidade_desejada", "unidade", "unit"},
			Pipeline:      []string{"pipeline", "tipo"},
			Stage:         []string{"etapa_do_negocio", "dealstage", "deal_stage", "status"},
			DealValue:     []string{"valor_na_moeda_da_empresa", "rvo", "amount"},
			TrafficSource: []string{"fonte_original_do_trafego", "original_source"},
			SourceDetail1: []string{"detalhamento_da_fonte_original_do_trafego_1", "detalhamento_fonte_original_1", "hs_analytics_source_data_1"},
			SourceDetail2: []string{"detalhamento_da_fonte_original_do_trafego_2", "detalhamento_fonte_original_2", "hs_analytics_source_data_2"},
		},
		MetaColumns: SpendColumns{
			Date:     []string{"data", "date", "day", "dia"},
			Spend:    []string{"investimento", "spend", "amount_spent", "valor_usado_brl", "valor_usado", "valor"},
			Campaign: []string{"campanha", "campaign", "campaign_name", "nome_da_campanha", "nome_campanha"},
		},
		GoogleColumns: SpendColumns{
			Date:     []string{"data", "date", "day", "dia"},
			Spend:    []string{"investimento", "cost", "spend", "investimento_google", "valor"},
			Campaign: []string{"nome_campanha", "campanha", "campaign", "keyword", "search_term", "termo"},
		},
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// SlogLevel translates LogLevel into a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process-wide JSON logger.
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()}))
}
