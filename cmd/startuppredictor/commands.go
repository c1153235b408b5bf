package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"StartupPredictor/internal/app"
	"StartupPredictor/internal/config"
	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/features"
	"StartupPredictor/internal/infrastructure/export"
	"StartupPredictor/internal/logging"
	"StartupPredictor/internal/ports"
	"StartupPredictor/internal/render"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "startuppredictor",
		Short: "Predict whether a startup will be acquired or close",
		Long: `startuppredictor collects the figures of a startup, sends them to the
prediction service and shows the predicted outcome.

Run "serve" for the web form, or "predict" and "batch" from the terminal.
The service URL comes from PREDICTION_API_URL or the YAML file named by
STARTUP_PREDICTOR_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newPredictCmd(opts),
		newBatchCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

// loadApp builds the application with logs going to logOut.
func loadApp(cmd *cobra.Command, opts *rootOptions, logOut io.Writer) (*app.Application, config.Config, error) {
	cfg := config.Load()
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	logger := logging.NewWithWriter(logOut, cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, cfg, err
	}
	return a, cfg, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction web form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp(cmd, opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
}

func featureFlag(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	numeric := make(map[string]*string, len(domain.NumericFeatures))
	selections := make(map[string]*string, len(domain.Groups))

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the outcome of one startup",
		Long: `Encodes the given figures and tag choices and asks the prediction service
for an outcome. Values that are not numbers count as 0.

Example:
  startuppredictor predict --relationships 5 --founded-year 2007 \
    --category software --country USA --state FL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := features.NewForm()
			for name, v := range numeric {
				if err := form.SetNumeric(name, *v); err != nil {
					return err
				}
			}
			for group, v := range selections {
				if err := form.SelectExclusive(group, *v); err != nil {
					return err
				}
			}

			a, _, err := loadApp(cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.Service().SubmitManual(cmd.Context(), form.Input())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Prediction(outcome.Result))
			return err
		},
	}

	for _, name := range domain.NumericFeatures {
		v := new(string)
		numeric[name] = v
		cmd.Flags().StringVar(v, featureFlag(name), "", "value of "+name)
	}
	for _, g := range domain.Groups {
		v := new(string)
		selections[g.Name] = v
		labels := make([]string, 0, len(g.Choices))
		for _, c := range g.Choices {
			labels = append(labels, c.Label)
		}
		cmd.Flags().StringVar(v, g.Name, domain.ChoiceNone, fmt.Sprintf("%s tag (%s)", g.Name, strings.Join(labels, ", ")))
	}
	return cmd
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Predict every row of a CSV file",
		Long: `Uploads a CSV file to the prediction service and prints the returned rows.
With --export the rows are also saved as json, csv or xlsx.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp(cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			var exporter ports.Exporter
			if format != "" {
				if exporter, err = a.Exporters().Resolve(format); err != nil {
					return err
				}
			}

			var (
				reader   io.Reader
				fileName string
			)
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				reader, fileName = f, filepath.Base(args[0])
			}

			batch, err := a.Service().SubmitBatch(cmd.Context(), fileName, reader)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := render.WriteTable(out, render.BatchTable(batch)); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out, render.Summarize(batch).String()); err != nil {
				return err
			}

			if exporter == nil {
				return nil
			}
			path := outPath
			if path == "" {
				path = export.FileName(exporter.Format())
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := a.Service().Export(f, exporter); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", path, err)
			}
			_, err = fmt.Fprintf(out, "Saved %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "export", "", "save the rows as json, csv or xlsx")
	cmd.Flags().StringVar(&outPath, "out", "", "export destination (default predictions.<format>)")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := loadApp(cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !a.Service().HistoryEnabled() {
				_, err := fmt.Fprintln(out, "History is disabled. Set HISTORY_DSN to enable it.")
				return err
			}

			if limit <= 0 {
				limit = cfg.History.Limit
			}
			records, err := a.Service().History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return render.WriteTable(out, historyTable(records))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of records to show (default from config)")
	return cmd
}

func historyTable(records []domain.HistoryRecord) render.Table {
	if len(records) == 0 {
		return render.Table{}
	}
	table := render.Table{Columns: []string{"CREATED", "KIND", "REQUEST", "RESULT"}}
	for _, r := range records {
		result := r.Outcome
		if r.Error != "" {
			result = "Error: " + r.Error
		}
		table.Rows = append(table.Rows, []string{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			string(r.Kind),
			r.Request,
			result,
		})
	}
	return table
}
