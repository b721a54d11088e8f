package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mscorebench/internal/config"
	"mscorebench/internal/logging"
	"mscorebench/internal/pipeline"
	"mscorebench/internal/report"
	"mscorebench/internal/results"
	"mscorebench/internal/workspace"
)

var reportFlags struct {
	runID    string
	engine   string
	template string
	htmlOnly bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Produce the PDF report for a run",
	Long: "Produces the run report. The default engine invokes the external\n" +
		"create_report.py script; the native engine renders HTML from the\n" +
		"analysis summary and prints it to PDF with headless Chrome.",
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.runID, "run-id", "", "Run ID (default: latest run)")
	f.StringVar(&reportFlags.engine, "engine", "script", "Report engine (script, native)")
	f.StringVar(&reportFlags.template, "template", "", "HTML template for the native engine (default: built-in)")
	f.BoolVar(&reportFlags.htmlOnly, "html-only", false, "Native engine: skip the PDF print, keep the HTML")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch reportFlags.engine {
	case "script":
		if err := execSteps(cmd, cfg, reportFlags.runID, false, []string{pipeline.StepReport}); err != nil {
			return err
		}
		ws := workspace.New(cfg.Workspace)
		runID, err := resolveRunID(ws, reportFlags.runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", ws.ReportPath(runID))
		return nil
	case "native":
		return runNativeReport(cmd, cfg)
	default:
		return fmt.Errorf("unknown report engine %q (script, native)", reportFlags.engine)
	}
}

func runNativeReport(cmd *cobra.Command, cfg *config.Config) error {
	ws := workspace.New(cfg.Workspace)
	runID, err := resolveRunID(ws, reportFlags.runID)
	if err != nil {
		return err
	}
	a, err := results.LoadAnalysis(ws.AnalysisPath(runID))
	if err != nil {
		return fmt.Errorf("read analysis (run 'mscorebench analyze' first): %w", err)
	}

	data := report.BuildData(runID, a, time.Now().UTC())
	htmlPath := filepath.Join(ws.ReportsRoot(), runID+".html")
	if err := report.WriteHTML(data, reportFlags.template, htmlPath); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "HTML: %s\n", htmlPath)
	if reportFlags.htmlOnly {
		return nil
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	pdfPath := ws.ReportPath(runID)
	if err := report.RenderPDF(ctx, htmlPath, pdfPath); err != nil {
		// No Chrome on this host is not fatal; the HTML stands alone.
		logging.New("report").Warn("PDF print failed, keeping HTML only", "error", err)
		return nil
	}
	fmt.Fprintf(out, "PDF:  %s\n", pdfPath)
	return nil
}
