package main

import (
	"fmt"
	"os"

	"github.com/findosh/holdings/internal/config"
	"github.com/findosh/holdings/internal/logging"
	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/findosh/holdings/internal/services/importer"
	"github.com/findosh/holdings/internal/services/normalizer"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	importer *importer.Service
	policy   *models.CategoryPolicy
}

type rootFlags struct {
	logLevel  string
	intlLabel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:   "holdings",
		Short: "Normalize, aggregate and pivot custodian holdings exports",
		Long: `holdings reads a CSV or XLSX export of portfolio holdings, cleans it,
and prints the processed records, the aggregated positions, or a
security-by-account cross-tab.

Defaults come from HOLDINGS_* environment variables and an optional .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = flags.logLevel
			}
			if cmd.Flags().Changed("intl-label") {
				cfg.IntlEquityLabel = flags.intlLabel
			}

			a.cfg = cfg
			a.log = logging.NewWithWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}, cfg.LogLevel)
			a.importer = importer.NewService(cfg.MaxUploadBytes(), a.log)
			a.policy = models.NewCategoryPolicy(cfg.IntlEquityLabel)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides HOLDINGS_LOG_LEVEL")
	root.PersistentFlags().StringVar(&flags.intlLabel, "intl-label", "", "label of the international equity category; overrides HOLDINGS_INTL_EQUITY_LABEL")

	root.AddCommand(processCmd(a))
	root.AddCommand(portfolioCmd(a))
	root.AddCommand(gridCmd(a))

	return root
}

// load parses the file and runs the normalizer on it
func (a *app) load(cmd *cobra.Command, path string) (normalizer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return normalizer.Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := a.importer.Load(cmd.Context(), path, f)
	if err != nil {
		return normalizer.Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	res := normalizer.Normalize(parsed.Table, a.policy)
	for _, entry := range res.Log {
		ev := a.log.Info()
		if entry.Severity == models.SeverityWarning {
			ev = a.log.Warn()
		}
		ev.Str("severity", string(entry.Severity)).Msg(entry.Message)
	}
	return res, nil
}

// analytics builds the aggregation service from config plus command flags
func (a *app) analytics(accountInfo, dropNetZero bool) (*analytics.Service, error) {
	mode, err := analytics.ParseColumnMode(a.cfg.PivotColumns)
	if err != nil {
		return nil, err
	}
	if accountInfo {
		mode = analytics.ColumnsAccountInfo
	}
	return analytics.NewService(a.policy, analytics.Options{
		Columns:         mode,
		DropNetZeroRows: dropNetZero || a.cfg.DropNetZeroRows,
	}), nil
}
