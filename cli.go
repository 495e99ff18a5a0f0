package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/qyinm/ktrend/client"
	"github.com/qyinm/ktrend/config"
	"github.com/qyinm/ktrend/dashboard"
	"github.com/qyinm/ktrend/logging"
	"github.com/qyinm/ktrend/mcpsrv/dto"
	"github.com/qyinm/ktrend/types"
	"github.com/qyinm/ktrend/ui"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type rootOptions struct {
	cfg      config.Client
	category string
	dev      bool
	debug    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.LoadClient()}

	root := &cobra.Command{
		Use:     "ktrend",
		Short:   "Real-time Korean trend dashboard",
		Long:    "Browse real-time shopping and video trend keywords by category, with an AI explanation and search volume chart for each.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfg.APIURL, "api-url", opts.cfg.APIURL, "Trend backend base URL (env KTREND_API_URL)")
	pf.DurationVar(&opts.cfg.Timeout, "timeout", opts.cfg.Timeout, "HTTP timeout per request (env KTREND_HTTP_TIMEOUT)")
	pf.StringVar(&opts.cfg.LogFile, "log-file", opts.cfg.LogFile, "Log file path (default: ~/.ktrend/logs/ktrend-YYYY-MM-DD.log)")
	pf.BoolVar(&opts.debug, "debug", false, "Log at debug level")

	root.Flags().StringVarP(&opts.category, "category", "c", string(types.CategoryAll), "Initial category: all, Fashion, Digital, Food, Living")
	root.Flags().BoolVar(&opts.dev, "dev", false, "Panic on selections outside the current list")

	root.AddCommand(newListCmd(opts), newAnalyzeCmd(opts))
	return root
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	category, err := types.ParseCategory(opts.category)
	if err != nil {
		return err
	}
	if err := logging.Init(opts.cfg.LogFile, opts.debug); err != nil {
		return err
	}
	defer logging.Close()

	source := client.New(opts.cfg.Normalize())
	ctrl := dashboard.New(source, category,
		dashboard.WithStrict(opts.dev),
		dashboard.WithContext(cmd.Context()),
	)
	defer ctrl.Close()

	logging.Info("starting tui", "backend", source.BaseURL(), "category", category, "strict", opts.dev)
	p := tea.NewProgram(ui.NewModel(ctrl, source), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		category string
		asJSON   bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the ranked trend list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := types.ParseCategory(category)
			if err != nil {
				return err
			}
			source := client.New(opts.cfg.Normalize())
			list, err := source.GetTrends(cmd.Context(), cat)
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(list.Trends) {
				list.Trends = list.Trends[:limit]
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), dto.FromTrendList(list))
			}
			printTrendList(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(types.CategoryAll), "Category: all, Fashion, Digital, Food, Living")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of trends to print")
	return cmd
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		period string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <keyword>",
		Short: "Explain why a keyword is trending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.TrimSpace(args[0])
			if keyword == "" {
				return fmt.Errorf("keyword is required")
			}
			p, err := types.ParsePeriod(period)
			if err != nil {
				return err
			}

			source := client.New(opts.cfg.Normalize())
			analysis, err := source.Analyze(cmd.Context(), keyword)
			if err != nil {
				return err
			}
			points := analysis.Chart
			if p != types.ShortRange {
				if points, err = source.GetChartData(cmd.Context(), keyword, p); err != nil {
					return err
				}
			}

			if asJSON {
				out := dto.FromAnalysis(analysis, true)
				out.Chart = dto.FromChart(keyword, p, points, true)
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printAnalysis(cmd.OutOrStdout(), analysis, p, points)
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", types.ShortRange.String(), "Chart period: 1mo or 1yr")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTrendList(w io.Writer, list types.TrendList) {
	header := fmt.Sprintf("%s (%d)", list.Category.Label(), len(list.Trends))
	if !list.LastUpdated.IsZero() {
		header += " · updated " + humanize.Time(list.LastUpdated)
	}
	fmt.Fprintln(w, header)

	if len(list.Trends) == 0 {
		fmt.Fprintln(w, "No trends in this category yet.")
		return
	}

	rows := make([][]string, 0, len(list.Trends))
	for _, t := range list.Trends {
		reason, _ := t.Reason()
		rows = append(rows, []string{fmt.Sprint(t.Rank()), t.Keyword(), t.SourceLabel(), reason})
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RANK", "KEYWORD", "SOURCE", "REASON").
		Rows(rows...)
	fmt.Fprintln(w, tbl.String())
}

func printAnalysis(w io.Writer, a types.Analysis, p types.ChartPeriod, points []types.ChartPoint) {
	fmt.Fprintf(w, "%s\n\n%s\n\n", a.Keyword, a.Reason)

	peak, latest, ok := types.SeriesSummary(points)
	if !ok {
		fmt.Fprintf(w, "No %s chart data.\n", p)
		return
	}
	fmt.Fprintf(w, "Search volume (%s, %d points)\n", p, len(points))
	fmt.Fprintf(w, "  peak   %6.1f  %s\n", peak.Ratio, peak.Date.Format(time.DateOnly))
	fmt.Fprintf(w, "  latest %6.1f  %s\n", latest.Ratio, latest.Date.Format(time.DateOnly))
}
